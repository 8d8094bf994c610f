package model

// Lead is the normalized borrower record for one source-row occurrence.
// A borrower appearing in multiple source rows yields multiple Leads; the
// cleaner decides which one survives.
type Lead struct {
	CustomerID     string  `json:"customer_id"`
	FullName       string  `json:"full_name,omitempty"`
	PAN            string  `json:"pan,omitempty"`
	Mobile         string  `json:"mobile,omitempty"`
	Email          string  `json:"email,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	DOB            string  `json:"dob,omitempty"`
	EmploymentType string  `json:"employment_type,omitempty"`
	Income         float64 `json:"income"`
	Address        string  `json:"address,omitempty"`
	Pincode        string  `json:"pincode,omitempty"`

	// Derived geography, backfilled from the enrichment store.
	CityMapped  string `json:"city_mapped,omitempty"`
	StateMapped string `json:"state_mapped,omitempty"`
	ZoneMapped  string `json:"zone_mapped,omitempty"`

	CIBILScore float64 `json:"cibil_score"`
	CIBILBand  string  `json:"cibil_band,omitempty"`

	TotalAccounts    float64 `json:"total_accounts"`
	ActiveAccounts   float64 `json:"active_accounts"`
	ClosedAccounts   float64 `json:"closed_accounts"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalSanctioned  float64 `json:"total_sanctioned"`
	TotalEMI         float64 `json:"total_emi"`
	TotalPastDue     float64 `json:"total_past_due"`
	RecentEnquiries  float64 `json:"recent_enquiries_30d"`

	// Provenance.
	Source     string `json:"source"`
	RecordDate string `json:"record_date,omitempty"`
	SourceDB   string `json:"source_db,omitempty"`
}

// Loan is a single tradeline (credit account) belonging to a Lead.
type Loan struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	PAN          string `json:"pan,omitempty"`
	Mobile       string `json:"mobile,omitempty"`

	AccountTypeCategory string `json:"account_type_category,omitempty"`
	MappedCategory      string `json:"mapped_category,omitempty"`
	BankName            string `json:"bank_name,omitempty"`
	AccountNumber       string `json:"account_number,omitempty"`
	Status              string `json:"status,omitempty"`

	SanctionedAmount float64 `json:"sanctioned_amount"`
	CurrentBalance   float64 `json:"current_balance"`
	EMIAmount        float64 `json:"emi_amount"`
	OverdueAmount    float64 `json:"overdue_amount"`
	WriteOffAmount   float64 `json:"write_off_amount"`

	// Bureau date strings are passed through verbatim; formats differ per
	// source and are normalized downstream by the rendering collaborator.
	DateOpened   string `json:"date_opened,omitempty"`
	DateClosed   string `json:"date_closed,omitempty"`
	DateReported string `json:"date_reported,omitempty"`

	RateOfInterest  string `json:"rate_of_interest,omitempty"`
	RepaymentTenure string `json:"repayment_tenure,omitempty"`
	PaymentHistory  string `json:"payment_history,omitempty"`

	RecordDate string `json:"record_date,omitempty"`
	SourceDB   string `json:"source_db,omitempty"`
}

// Enquiry is one credit-application hard-pull event belonging to a Lead.
type Enquiry struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	PAN          string `json:"pan,omitempty"`
	Mobile       string `json:"mobile,omitempty"`

	Date    string  `json:"date,omitempty"`
	Lender  string  `json:"lender,omitempty"`
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose,omitempty"`

	RecordDate string `json:"record_date,omitempty"`
	SourceDB   string `json:"source_db,omitempty"`
}
