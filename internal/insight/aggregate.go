// Package insight derives the per-borrower analytics row from a Lead and
// its tradelines.
package insight

import (
	"strconv"
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// activeMarkers identify a tradeline as live for the active-loan count.
var activeMarkers = []string{"open", "active", "live"}

// Aggregate computes the analytics row for one (Lead, Loans) pair. Every
// loan lands in exactly one of the eight buckets; unknown categories route
// to Other_Loans. A nil lead yields a zero row with an empty CustomerID,
// which callers treat as absent.
func Aggregate(lead *model.Lead, loans []model.Loan) model.AnalyticsRow {
	if lead == nil {
		return model.AnalyticsRow{}
	}

	row := model.AnalyticsRow{
		CustomerID: lead.CustomerID,
		PAN:        lead.PAN,
		Mobile:     lead.Mobile,
		City:       lead.CityMapped,
		State:      lead.StateMapped,
		Zone:       lead.ZoneMapped,
		Categories: make(map[string]model.CategoryStat, len(model.Buckets())),
	}

	grouped := make(map[string][]model.Loan, len(model.Buckets()))
	for _, loan := range loans {
		bucket := loan.MappedCategory
		if !validBucket(bucket) {
			bucket = model.BucketOther
		}
		grouped[bucket] = append(grouped[bucket], loan)

		row.TotalEMIObligation += loan.EMIAmount
		if isActive(loan.Status) {
			row.TotalActiveLoans++
		}
	}

	for _, bucket := range model.Buckets() {
		bucketLoans := grouped[bucket]
		stat := model.CategoryStat{Count: len(bucketLoans)}

		var lenders []string
		seen := map[string]struct{}{}
		sanctioned := make([]string, 0, len(bucketLoans))
		for _, loan := range bucketLoans {
			if _, dup := seen[loan.BankName]; !dup {
				seen[loan.BankName] = struct{}{}
				lenders = append(lenders, loan.BankName)
			}
			sanctioned = append(sanctioned, formatAmount(loan.SanctionedAmount))
			stat.Balance += loan.CurrentBalance
		}
		stat.Lenders = strings.Join(lenders, ", ")
		// One entry per loan, deliberately not deduplicated.
		stat.Sanctioned = strings.Join(sanctioned, ", ")

		row.Categories[bucket] = stat
	}

	return row
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isActive(status string) bool {
	st := strings.ToLower(status)
	for _, marker := range activeMarkers {
		if strings.Contains(st, marker) {
			return true
		}
	}
	return false
}

func validBucket(bucket string) bool {
	for _, b := range model.Buckets() {
		if b == bucket {
			return true
		}
	}
	return false
}
