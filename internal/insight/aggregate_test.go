package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bureau-etl/internal/model"
)

func TestAggregate(t *testing.T) {
	lead := &model.Lead{
		CustomerID:  "CUST-1",
		PAN:         "ABCDE1234F",
		Mobile:      "9876543210",
		CityMapped:  "Pune",
		StateMapped: "Maharashtra",
		ZoneMapped:  "West",
	}
	loans := []model.Loan{
		{MappedCategory: model.BucketHome, BankName: "HDFC Bank", SanctionedAmount: 1200000, CurrentBalance: 400000, EMIAmount: 15000, Status: "Active"},
		{MappedCategory: model.BucketHome, BankName: "HDFC Bank", SanctionedAmount: 500000, CurrentBalance: 100000, EMIAmount: 6000, Status: "Closed"},
		{MappedCategory: model.BucketHome, BankName: "LIC HFL", SanctionedAmount: 300000, CurrentBalance: 50000, EMIAmount: 4000, Status: "Open"},
		{MappedCategory: model.BucketCreditCard, BankName: "SBI Card", SanctionedAmount: 50000, CurrentBalance: 20000, Status: "LIVE"},
		{MappedCategory: "Not_A_Bucket", BankName: "Fullerton", SanctionedAmount: 25000, CurrentBalance: 10000, EMIAmount: 2500},
	}

	row := Aggregate(lead, loans)

	assert.Equal(t, "CUST-1", row.CustomerID)
	assert.Equal(t, "ABCDE1234F", row.PAN)
	assert.Equal(t, "West", row.Zone)
	assert.Equal(t, 27500.0, row.TotalEMIObligation)
	assert.Equal(t, 3, row.TotalActiveLoans)

	home := row.Categories[model.BucketHome]
	assert.Equal(t, 3, home.Count)
	// Lenders dedupe, sanctioned amounts keep one entry per loan.
	assert.Equal(t, "HDFC Bank, LIC HFL", home.Lenders)
	assert.Equal(t, "1200000, 500000, 300000", home.Sanctioned)
	assert.Equal(t, 550000.0, home.Balance)

	cc := row.Categories[model.BucketCreditCard]
	assert.Equal(t, 1, cc.Count)
	assert.Equal(t, "SBI Card", cc.Lenders)

	// Unknown categories route to Other_Loans.
	other := row.Categories[model.BucketOther]
	assert.Equal(t, 1, other.Count)
	assert.Equal(t, "Fullerton", other.Lenders)
	assert.Equal(t, 10000.0, other.Balance)
}

// Every bucket is present in the output map even with no loans at all.
func TestAggregate_AllBucketsPresent(t *testing.T) {
	row := Aggregate(&model.Lead{CustomerID: "CUST-2"}, nil)

	require.Len(t, row.Categories, len(model.Buckets()))
	for _, bucket := range model.Buckets() {
		stat, ok := row.Categories[bucket]
		require.True(t, ok, "bucket %s missing", bucket)
		assert.Zero(t, stat.Count)
		assert.Empty(t, stat.Lenders)
		assert.Empty(t, stat.Sanctioned)
		assert.Zero(t, stat.Balance)
	}
	assert.Zero(t, row.TotalEMIObligation)
	assert.Zero(t, row.TotalActiveLoans)
}

func TestAggregate_NilLead(t *testing.T) {
	row := Aggregate(nil, []model.Loan{{MappedCategory: model.BucketHome}})
	assert.Empty(t, row.CustomerID)
	assert.Nil(t, row.Categories)
}

func TestAggregate_FractionalAmounts(t *testing.T) {
	row := Aggregate(&model.Lead{CustomerID: "CUST-3"}, []model.Loan{
		{MappedCategory: model.BucketPersonal, BankName: "Axis", SanctionedAmount: 12345.5},
	})
	assert.Equal(t, "12345.5", row.Categories[model.BucketPersonal].Sanctioned)
}
