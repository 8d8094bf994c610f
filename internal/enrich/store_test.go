package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Location(t *testing.T) {
	s := NewStore(map[string]Place{
		"411001":   {City: "Pune", State: "Maharashtra"},
		"110001.0": {City: "New Delhi", State: "Delhi"},
	}, nil)

	city, state, zone := s.Location("411001")
	assert.Equal(t, "Pune", city)
	assert.Equal(t, "Maharashtra", state)
	assert.Equal(t, "West", zone)

	// Float-artifact pincodes normalize on both load and lookup.
	city, _, zone = s.Location("110001.0")
	assert.Equal(t, "New Delhi", city)
	assert.Equal(t, "North", zone)
	city, _, _ = s.Location("110001")
	assert.Equal(t, "New Delhi", city)

	city, state, zone = s.Location("999999")
	assert.Empty(t, city)
	assert.Empty(t, state)
	assert.Equal(t, "Unknown", zone)

	_, _, zone = Empty().Location("411001")
	assert.Equal(t, "Unknown", zone)
}

func TestStore_IsEmployee(t *testing.T) {
	s := NewStore(nil, []string{"9876543210", "9000011111.0", "  ", ""})

	assert.True(t, s.IsEmployee("9876543210"))
	assert.True(t, s.IsEmployee("9876543210.0"))
	assert.True(t, s.IsEmployee("9000011111"))
	assert.False(t, s.IsEmployee("1234567890"))
	assert.False(t, s.IsEmployee(""))
	assert.Equal(t, 2, s.EmployeeCount())
}

func TestZoneFor(t *testing.T) {
	assert.Equal(t, "South", ZoneFor("Karnataka"))
	assert.Equal(t, "East", ZoneFor("West Bengal"))
	assert.Equal(t, "North-East", ZoneFor("Assam"))
	assert.Equal(t, "Central", ZoneFor("Madhya Pradesh"))
	assert.Equal(t, "Unknown", ZoneFor("Atlantis"))
	assert.Equal(t, "Unknown", ZoneFor(""))
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{800, Band750},
		{750, Band750},
		{749.99, Band700},
		{700, Band700},
		{699, Band650},
		{650, Band650},
		{649, Band300},
		{300, Band300},
		{299, BandNoScore},
		{0, BandNoScore},
		{-1, BandNoScore},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreBand(tt.score), "score %v", tt.score)
	}
}
