package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bureau-etl/internal/enrich"
	"github.com/sells-group/bureau-etl/internal/model"
)

func TestProcessLeads_PANMobileDedup(t *testing.T) {
	e := New(enrich.Empty(), ModePANMobile)
	leads := []model.Lead{
		{CustomerID: "A", PAN: "ABCDE1234F", Mobile: "9876543210"},
		{CustomerID: "B", PAN: "abcde1234f", Mobile: "9876543210"}, // PAN case-insensitive dup of A
		{CustomerID: "C", PAN: "ABCDE1234F", Mobile: "9000000000"}, // different mobile, distinct
		{CustomerID: "D", PAN: "", Mobile: ""},                     // blank key, never collides
		{CustomerID: "E", PAN: "", Mobile: ""},
		{CustomerID: "F", PAN: "", Mobile: "9111111111"},
		{CustomerID: "G", PAN: "", Mobile: "9111111111"}, // dup of F
	}

	clean, employees, dups := e.ProcessLeads(leads)

	assert.Empty(t, employees)
	require.Len(t, dups, 2)
	assert.Equal(t, "B", dups[0].CustomerID)
	assert.Equal(t, "G", dups[1].CustomerID)

	ids := make([]string, 0, len(clean))
	for _, l := range clean {
		ids = append(ids, l.CustomerID)
	}
	// First-seen wins, input order preserved.
	assert.Equal(t, []string{"A", "C", "D", "E", "F"}, ids)
}

func TestProcessLeads_CustomerIDDedup(t *testing.T) {
	e := New(enrich.Empty(), ModeCustomerID)
	clean, _, dups := e.ProcessLeads([]model.Lead{
		{CustomerID: "A", PAN: "ONE"},
		{CustomerID: "A", PAN: "TWO"},
		{CustomerID: "B"},
	})

	require.Len(t, clean, 2)
	assert.Equal(t, "ONE", clean[0].PAN)
	require.Len(t, dups, 1)
	assert.Equal(t, "TWO", dups[0].PAN)
}

func TestProcessLeads_EmployeeSegregation(t *testing.T) {
	store := enrich.NewStore(nil, []string{"9876543210"})
	e := New(store, ModePANMobile)

	clean, employees, dups := e.ProcessLeads([]model.Lead{
		{CustomerID: "A", PAN: "ABCDE1234F", Mobile: "9876543210"},
		{CustomerID: "B", PAN: "ABCDE1234F", Mobile: "9876543210.0"}, // spreadsheet float artifact
		{CustomerID: "C", PAN: "FGHIJ5678K", Mobile: "9000000000"},
	})

	// Employee routing happens before dedup, so A and B both land there.
	require.Len(t, employees, 2)
	assert.Empty(t, dups)
	require.Len(t, clean, 1)
	assert.Equal(t, "C", clean[0].CustomerID)
}

func TestProcessLeads_DefaultMode(t *testing.T) {
	e := New(enrich.Empty(), "")
	_, _, dups := e.ProcessLeads([]model.Lead{
		{CustomerID: "A", PAN: "X", Mobile: "1"},
		{CustomerID: "B", PAN: "X", Mobile: "1"},
	})
	assert.Len(t, dups, 1)
}

func TestCleanLoans(t *testing.T) {
	e := New(enrich.Empty(), ModePANMobile)
	keep := IDSet{"A": {}, "B": {}}

	out := e.CleanLoans([]model.Loan{
		{CustomerID: "A", AccountNumber: "1", BankName: "HDFC", SanctionedAmount: 100},
		{CustomerID: "A", AccountNumber: "1", BankName: "HDFC", SanctionedAmount: 200}, // dup key
		{CustomerID: "A", AccountNumber: "1", BankName: "ICICI"},                       // same acct, other bank
		{CustomerID: "X", AccountNumber: "2", BankName: "HDFC"},                        // orphan, dropped
		{CustomerID: "B", AccountNumber: "3", BankName: "Axis"},
	}, keep)

	require.Len(t, out, 3)
	assert.Equal(t, 100.0, out[0].SanctionedAmount)
	assert.Equal(t, "ICICI", out[1].BankName)
	assert.Equal(t, "B", out[2].CustomerID)
}

func TestCleanEnquiries(t *testing.T) {
	e := New(enrich.Empty(), ModePANMobile)
	keep := IDSet{"A": {}}
	enqs := []model.Enquiry{
		{CustomerID: "A", Date: "2024-01-01", Lender: "HDFC", Amount: 100},
		{CustomerID: "A", Date: "2024-01-01", Lender: "HDFC", Amount: 100}, // dup
		{CustomerID: "A", Date: "2024-01-01", Lender: "HDFC", Amount: 200},
		{CustomerID: "B", Date: "2024-01-02", Lender: "Axis", Amount: 300}, // orphan
	}

	deduped := e.CleanEnquiries(enqs, keep, true)
	assert.Len(t, deduped, 2)

	// The excluded partition keeps every occurrence.
	all := e.CleanEnquiries(enqs, keep, false)
	assert.Len(t, all, 3)
}

func TestCleanAnalytics(t *testing.T) {
	e := New(enrich.Empty(), ModePANMobile)
	out := e.CleanAnalytics([]model.AnalyticsRow{
		{CustomerID: "A", TotalActiveLoans: 1},
		{CustomerID: "A", TotalActiveLoans: 9}, // dup id, first wins
		{CustomerID: "B"},
		{CustomerID: "X"}, // orphan
	}, IDSet{"A": {}, "B": {}})

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].TotalActiveLoans)
}

func TestTracker(t *testing.T) {
	store := enrich.NewStore(nil, []string{"9876543210"})
	e := New(store, ModePANMobile)

	clean, _, _ := e.ProcessLeads([]model.Lead{
		{CustomerID: "A", PAN: "P1", Mobile: "9000000000"},
		{CustomerID: "B", PAN: "P1", Mobile: "9000000000"},
		{CustomerID: "C", Mobile: "9876543210"},
	})
	keep := IDs(clean)
	e.CleanLoans([]model.Loan{{CustomerID: "A", MappedCategory: model.BucketHome}}, keep)
	e.CleanEnquiries(nil, keep, true)
	e.CleanAnalytics([]model.AnalyticsRow{{CustomerID: "A"}}, keep)
	e.CategoryStats([]model.Loan{
		{MappedCategory: model.BucketHome},
		{MappedCategory: model.BucketHome},
		{MappedCategory: model.BucketGold},
	})

	tracker := e.Tracker()
	byStage := map[string]int{}
	for _, entry := range tracker {
		byStage[entry.Stage] = entry.Count
	}

	assert.Equal(t, 3, byStage["Fetched Leads"])
	assert.Equal(t, 1, byStage["Internal Employees"])
	assert.Equal(t, 1, byStage["Duplicate Leads"])
	assert.Equal(t, 1, byStage["Clean Leads"])
	assert.Equal(t, 1, byStage["Clean Tradelines"])
	assert.Equal(t, 0, byStage["Clean Enquiries"])
	assert.Equal(t, 1, byStage["Analytics Rows"])
	assert.Equal(t, 2, byStage[model.BucketHome])
	assert.Equal(t, 1, byStage[model.BucketGold])
	assert.Equal(t, 0, byStage[model.BucketAuto])

	// Stage order follows processing order.
	assert.Equal(t, "Fetched Leads", tracker[0].Stage)
	assert.Equal(t, "Clean Leads", tracker[3].Stage)
}
