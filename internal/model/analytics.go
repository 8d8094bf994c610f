package model

// Loan category buckets. Every tradeline maps to exactly one of these;
// anything unrecognized lands in BucketOther.
const (
	BucketHome       = "Home_Loans"
	BucketAuto       = "Auto_Loans"
	BucketEducation  = "Education_Loans"
	BucketGold       = "Gold_Loans"
	BucketPersonal   = "Personal_Loans"
	BucketCreditCard = "Credit_Cards"
	BucketBusiness   = "Business_Loans"
	BucketOther      = "Other_Loans"
)

// Buckets returns the fixed bucket set in reporting order.
func Buckets() []string {
	return []string{
		BucketHome,
		BucketPersonal,
		BucketBusiness,
		BucketAuto,
		BucketCreditCard,
		BucketEducation,
		BucketGold,
		BucketOther,
	}
}

// CategoryStat summarizes the tradelines of one bucket for one Lead.
type CategoryStat struct {
	Count      int     `json:"count"`
	Lenders    string  `json:"lenders,omitempty"`
	Sanctioned string  `json:"sanctioned,omitempty"`
	Balance    float64 `json:"balance"`
}

// AnalyticsRow is the derived analytics record for one (Lead, Loans) pair.
// It is never persisted independently of its Lead.
type AnalyticsRow struct {
	CustomerID string `json:"customer_id"`
	PAN        string `json:"pan,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zone       string `json:"zone,omitempty"`

	Categories map[string]CategoryStat `json:"categories"`

	TotalActiveLoans   int     `json:"total_active_loans"`
	TotalEMIObligation float64 `json:"total_emi_obligation"`

	RecordDate string `json:"record_date,omitempty"`
	SourceDB   string `json:"source_db,omitempty"`
}
