package model

import "fmt"

// Format identifies which bureau schema variant a raw payload follows.
// The set is closed: adding a bureau means adding a Format constant and an
// extractor for it, never widening detector control flow ad hoc.
type Format string

const (
	FormatExperianRaw      Format = "EXPERIAN_RAW"
	FormatTrustellCIBILRaw Format = "TRUSTELL_CIBIL_RAW"
	FormatCPLTrustell      Format = "CPL_TRUSTELL_CIBIL"
	FormatExperianInternal Format = "EXPERIAN_INTERNAL"
	FormatUnknown          Format = "UNKNOWN_FALLBACK"
	FormatInvalid          Format = "INVALID_JSON"
)

// ParseError reports a row whose payload could not be extracted. Rows that
// fail this way are skipped and counted, never fatal to the batch or job.
type ParseError struct {
	CustomerID string
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.CustomerID, e.Reason)
}
