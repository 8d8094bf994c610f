package bureau

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPath(t *testing.T) {
	data := mustDecode(t, `{
		"a": {
			"b": [
				{"c": "first"},
				{"c": "second"}
			],
			"n": 7
		},
		"empty": null
	}`)

	tests := []struct {
		name string
		path string
		want any
	}{
		{"nested index", "a.b[0].c", "first"},
		{"second index", "a.b[1].c", "second"},
		{"plain keys", "a.n", float64(7)},
		{"index out of range", "a.b[5].c", nil},
		{"negative index", "a.b[-1].c", nil},
		{"missing key", "a.x.y", nil},
		{"index into object", "a[0]", nil},
		{"key into array", "a.b.c", nil},
		{"null value", "empty", nil},
		{"empty path", "", nil},
		{"malformed index treated as key", "a.b[x].c", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupPath(data, tt.path))
		})
	}
}

func TestLookupKeys(t *testing.T) {
	data := mustDecode(t, `{"list": [{"id": {"value": "abc"}}]}`)

	assert.Equal(t, "abc", lookupKeys(data, "list", 0, "id", "value"))
	assert.Nil(t, lookupKeys(data, "list", 1, "id"))
	assert.Nil(t, lookupKeys(data, "missing", 0))
	assert.Nil(t, lookupKeys(data, "list", "not-an-index"))
	assert.Nil(t, lookupKeys(nil, "anything"))
}

func TestAsSlice_WrapsSingleObject(t *testing.T) {
	obj := map[string]any{"k": "v"}
	got := asSlice(obj)
	assert.Len(t, got, 1)
	assert.Equal(t, obj, got[0])

	assert.Nil(t, asSlice("scalar"))
	assert.Nil(t, asSlice(nil))
}
