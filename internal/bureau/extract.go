package bureau

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/bureau-etl/internal/enrich"
	"github.com/sells-group/bureau-etl/internal/model"
)

// extractFunc converts one decoded payload object into raw (un-enriched)
// records. Extractors never fail; absent fields degrade to zero values.
type extractFunc func(data map[string]any, customerID string) (*model.Lead, []model.Loan, []model.Enquiry)

// extractors is the dispatch table. New bureau variants are added here and
// in the detector's signature list, nowhere else.
var extractors = map[model.Format]extractFunc{
	model.FormatExperianRaw:      extractExperianRaw,
	model.FormatTrustellCIBILRaw: extractTrustellCIBILRaw,
	model.FormatCPLTrustell:      extractCPLTrustell,
	model.FormatExperianInternal: extractExperianInternal,
}

// Extract normalizes a raw payload (object, array of objects, or a
// JSON-encoded string of either) into enriched records for one customer.
// A nil lead with nil error means the payload was empty. A *model.ParseError
// is returned for undecodable payloads or an extractor panic, so the caller
// can count the failure without aborting its batch.
func Extract(store *enrich.Store, payload any, customerID string) (lead *model.Lead, loans []model.Loan, enqs []model.Enquiry, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("bureau: extractor panic",
				zap.String("customer_id", customerID),
				zap.Any("panic", r),
			)
			lead, loans, enqs = nil, nil, nil
			err = &model.ParseError{CustomerID: customerID, Reason: fmt.Sprintf("extractor panic: %v", r)}
		}
	}()

	if s, ok := payload.(string); ok {
		var decoded any
		if jsonErr := json.Unmarshal([]byte(s), &decoded); jsonErr != nil {
			return nil, nil, nil, &model.ParseError{CustomerID: customerID, Reason: "invalid JSON payload"}
		}
		payload = decoded
	}
	if payload == nil {
		return nil, nil, nil, nil
	}

	if arr, ok := payload.([]any); ok {
		// Multiple embedded reports under one row: extract each element
		// independently, concatenate sub-records, first non-empty lead wins.
		var allLoans []model.Loan
		var allEnqs []model.Enquiry
		var primary *model.Lead
		for _, item := range arr {
			l, lo, eq, itemErr := Extract(store, item, customerID)
			if itemErr != nil || l == nil {
				continue
			}
			if primary == nil {
				primary = l
			}
			allLoans = append(allLoans, lo...)
			allEnqs = append(allEnqs, eq...)
		}
		return primary, allLoans, allEnqs, nil
	}

	obj, ok := payload.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, nil, nil, nil
	}

	format := DetectFormat(obj)
	fn, known := extractors[format]
	if !known {
		// Unknown or sentinel payloads still yield a minimal lead so the
		// row remains observable downstream.
		return &model.Lead{CustomerID: customerID, Source: "Unknown"}, nil, nil, nil
	}

	lead, loans, enqs = fn(obj, customerID)
	if lead != nil {
		enrichRecords(store, lead, loans, enqs)
	}
	return lead, loans, enqs, nil
}

// enrichRecords backfills derived fields immediately after extraction:
// geography from pincode, score band, loan category buckets, and the lead's
// identity propagated onto its sub-records.
func enrichRecords(store *enrich.Store, lead *model.Lead, loans []model.Loan, enqs []model.Enquiry) {
	lead.CityMapped, lead.StateMapped, lead.ZoneMapped = store.Location(lead.Pincode)
	lead.CIBILBand = enrich.ScoreBand(lead.CIBILScore)

	for i := range loans {
		loans[i].CustomerName = lead.FullName
		loans[i].PAN = lead.PAN
		loans[i].Mobile = lead.Mobile
		loans[i].MappedCategory = enrich.Category(loans[i].AccountTypeCategory)
	}
	for i := range enqs {
		enqs[i].CustomerName = lead.FullName
		enqs[i].PAN = lead.PAN
		enqs[i].Mobile = lead.Mobile
	}
}
