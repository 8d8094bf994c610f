// Package cleaner deduplicates the accumulated record sets, segregates
// internal-employee leads, and tracks per-stage counts for the processing
// tracker report.
package cleaner

import (
	"fmt"
	"strings"

	"github.com/sells-group/bureau-etl/internal/enrich"
	"github.com/sells-group/bureau-etl/internal/model"
)

// Mode selects the lead deduplication key.
type Mode string

const (
	// ModePANMobile joins normalized PAN and Mobile. Leads where both are
	// blank never collide with each other.
	ModePANMobile Mode = "pan_mobile"
	// ModeCustomerID dedups on customer id alone.
	ModeCustomerID Mode = "customer_id"
)

// IDSet is the set of customer ids whose sub-records survive partitioning.
type IDSet map[string]struct{}

// IDs collects the customer ids of a lead set.
func IDs(leads []model.Lead) IDSet {
	set := make(IDSet, len(leads))
	for _, l := range leads {
		set[l.CustomerID] = struct{}{}
	}
	return set
}

// TrackerEntry is one row of the processing tracker report.
type TrackerEntry struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// Engine runs the cleaning pipeline for one job. It is stateful: every
// stage records its counts, and Tracker returns them in processing order.
type Engine struct {
	store   *enrich.Store
	mode    Mode
	tracker []TrackerEntry
}

// New creates a cleaning engine backed by the enrichment store's employee
// set, deduplicating leads by the given mode.
func New(store *enrich.Store, mode Mode) *Engine {
	if mode == "" {
		mode = ModePANMobile
	}
	return &Engine{store: store, mode: mode}
}

// ProcessLeads segregates employee leads, then deduplicates the remainder.
// Ties break strictly by input order: the first-seen lead per key survives,
// later ones are routed to the duplicate set. This is the only defined
// tie-break policy.
func (e *Engine) ProcessLeads(leads []model.Lead) (clean, employees, duplicates []model.Lead) {
	seen := map[string]struct{}{}
	for _, lead := range leads {
		if e.store.IsEmployee(lead.Mobile) {
			employees = append(employees, lead)
			continue
		}
		key := e.dedupKey(lead)
		if key != "" {
			if _, dup := seen[key]; dup {
				duplicates = append(duplicates, lead)
				continue
			}
			seen[key] = struct{}{}
		}
		clean = append(clean, lead)
	}

	e.record("Fetched Leads", len(leads))
	e.record("Internal Employees", len(employees))
	e.record("Duplicate Leads", len(duplicates))
	e.record("Clean Leads", len(clean))
	return clean, employees, duplicates
}

// dedupKey returns the identity key for a lead, or "" when the key fields
// are all blank (blank keys must not collide).
func (e *Engine) dedupKey(lead model.Lead) string {
	if e.mode == ModeCustomerID {
		return strings.TrimSpace(lead.CustomerID)
	}
	pan := strings.ToUpper(strings.TrimSpace(lead.PAN))
	mobile := strings.TrimSpace(lead.Mobile)
	if pan == "" && mobile == "" {
		return ""
	}
	return pan + "|" + mobile
}

// CleanLoans partitions loans by the surviving id set and sub-deduplicates
// on (customer id, account number, bank name).
func (e *Engine) CleanLoans(loans []model.Loan, keep IDSet) []model.Loan {
	out := cleanSub(loans, keep,
		func(l model.Loan) string { return l.CustomerID },
		func(l model.Loan) string { return l.CustomerID + "|" + l.AccountNumber + "|" + l.BankName },
	)
	e.record("Clean Tradelines", len(out))
	return out
}

// CleanEnquiries partitions enquiries by the surviving id set. When dedupe
// is true they are sub-deduplicated on (customer id, date, lender, amount);
// the excluded partition keeps every occurrence.
func (e *Engine) CleanEnquiries(enqs []model.Enquiry, keep IDSet, dedupe bool) []model.Enquiry {
	var key func(model.Enquiry) string
	if dedupe {
		key = func(q model.Enquiry) string {
			return fmt.Sprintf("%s|%s|%s|%v", q.CustomerID, q.Date, q.Lender, q.Amount)
		}
	}
	out := cleanSub(enqs, keep, func(q model.Enquiry) string { return q.CustomerID }, key)
	if dedupe {
		e.record("Clean Enquiries", len(out))
	}
	return out
}

// CleanAnalytics partitions analytics rows by the surviving id set, keeping
// one row per customer id.
func (e *Engine) CleanAnalytics(rows []model.AnalyticsRow, keep IDSet) []model.AnalyticsRow {
	out := cleanSub(rows, keep,
		func(r model.AnalyticsRow) string { return r.CustomerID },
		func(r model.AnalyticsRow) string { return r.CustomerID },
	)
	e.record("Analytics Rows", len(out))
	return out
}

// CategoryStats accumulates per-bucket tradeline counts into the tracker.
// Observability only; it does not affect routing.
func (e *Engine) CategoryStats(loans []model.Loan) {
	counts := map[string]int{}
	for _, l := range loans {
		counts[l.MappedCategory]++
	}
	for _, bucket := range model.Buckets() {
		e.record(bucket, counts[bucket])
	}
}

// Tracker returns the accumulated stage counts in processing order.
func (e *Engine) Tracker() []TrackerEntry {
	return e.tracker
}

func (e *Engine) record(stage string, count int) {
	e.tracker = append(e.tracker, TrackerEntry{Stage: stage, Count: count})
}

// cleanSub keeps records whose id is in the surviving set, deduplicating by
// key when one is provided. First-seen wins, preserving input order.
func cleanSub[T any](records []T, keep IDSet, id func(T) string, key func(T) string) []T {
	var out []T
	seen := map[string]struct{}{}
	for _, rec := range records {
		if _, ok := keep[id(rec)]; !ok {
			continue
		}
		if key != nil {
			k := key(rec)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, rec)
	}
	return out
}
