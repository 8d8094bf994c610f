// Package bureau classifies raw credit-bureau JSON payloads into known
// schema variants and extracts normalized Lead/Loan/Enquiry records from
// them. Detection and extraction are total: malformed or partially missing
// input degrades to neutral defaults instead of failing the record.
package bureau

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// signature is one ordered detection rule: a payload matches when its
// lower-cased serialized form contains every marker.
type signature struct {
	format  model.Format
	markers []string
}

// signatures are checked most-specific-first. Variants share substrings
// ("reportdata" appears inside Trustell CIBIL payloads too), so order is
// load-bearing.
var signatures = []signature{
	{model.FormatExperianRaw, []string{"xmljsonresponse"}},
	{model.FormatTrustellCIBILRaw, []string{"cibildata", "getcustomerassetsresponse"}},
	{model.FormatCPLTrustell, []string{"reportdata", "reportsummary"}},
	{model.FormatExperianInternal, []string{"creditanalysis", "personalloans"}},
}

// DetectFormat classifies a raw JSON value (object, array, or JSON-encoded
// string) into one of the known schema variants. It is deterministic,
// side-effect free, and never fails: undecodable strings are FormatInvalid
// and unrecognized shapes are FormatUnknown.
func DetectFormat(raw any) model.Format {
	if s, ok := raw.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return model.FormatInvalid
		}
		raw = decoded
	}
	if arr, ok := raw.([]any); ok {
		if len(arr) == 0 {
			return model.FormatUnknown
		}
		return DetectFormat(arr[0])
	}

	text := serializeLower(raw)
	for _, sig := range signatures {
		if matchesAll(text, sig.markers) {
			return sig.format
		}
	}
	return model.FormatUnknown
}

func matchesAll(text string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(text, m) {
			return false
		}
	}
	return true
}

func serializeLower(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}
