package bureau

import "strings"

// addressParts is the fixed assembly order for Experian address objects.
var addressParts = []string{
	"flatNoPlotNoHouseNo",
	"bldgNumberSocietyName",
	"roadNumberNameAreaLocality",
	"city",
	"state",
	"pinCode",
}

// formatAddress joins the known address sub-fields with ", ", skipping
// blanks. Non-object input is rendered as-is.
func formatAddress(addr any) string {
	m, ok := addr.(map[string]any)
	if !ok {
		return strings.TrimSpace(asString(addr))
	}
	parts := make([]string, 0, len(addressParts))
	for _, key := range addressParts {
		if p := field(m, key); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
