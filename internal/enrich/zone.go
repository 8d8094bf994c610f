package enrich

// zoneMap assigns each state to one of five zones plus Central. The table is
// fixed reference data, not configuration.
var zoneMap = map[string]string{
	"Delhi":            "North",
	"Haryana":          "North",
	"Punjab":           "North",
	"Himachal Pradesh": "North",
	"Jammu & Kashmir":  "North",
	"Uttarakhand":      "North",
	"Uttar Pradesh":    "North",
	"Rajasthan":        "North",
	"Chandigarh":       "North",
	"Ladakh":           "North",

	"Maharashtra":            "West",
	"Gujarat":                "West",
	"Goa":                    "West",
	"Dadra and Nagar Haveli": "West",
	"Daman and Diu":          "West",

	"Karnataka":      "South",
	"Tamil Nadu":     "South",
	"Kerala":         "South",
	"Telangana":      "South",
	"Andhra Pradesh": "South",
	"Puducherry":     "South",
	"Lakshadweep":    "South",

	"West Bengal": "East",
	"Odisha":      "East",
	"Bihar":       "East",
	"Jharkhand":   "East",
	"Sikkim":      "East",

	"Assam":             "North-East",
	"Arunachal Pradesh": "North-East",
	"Manipur":           "North-East",
	"Meghalaya":         "North-East",
	"Mizoram":           "North-East",
	"Nagaland":          "North-East",
	"Tripura":           "North-East",

	"Madhya Pradesh": "Central",
	"Chhattisgarh":   "Central",
}

// ZoneFor maps a state name to its zone, defaulting to "Unknown".
func ZoneFor(state string) string {
	if z, ok := zoneMap[state]; ok {
		return z
	}
	return "Unknown"
}
