package bureau

import (
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// extractCPLTrustell handles the pre-mapped CPL/Trustell report format:
// summary fields under reportSummary and tradelines split across
// creditAnalysis.creditCards, a loans-by-category map, and otherLoans.
func extractCPLTrustell(data map[string]any, customerID string) (*model.Lead, []model.Loan, []model.Enquiry) {
	root := cplRoot(data)

	lead := &model.Lead{
		CustomerID:     customerID,
		FullName:       pathString(root, "reportSummary.personalDetails.fullName"),
		PAN:            pathString(root, "reportSummary.personalDetails.pan"),
		Mobile:         pathString(root, "reportSummary.personalDetails.mobile"),
		Email:          pathString(root, "reportSummary.personalDetails.email"),
		Gender:         pathString(root, "reportSummary.personalDetails.gender"),
		DOB:            pathString(root, "reportSummary.personalDetails.dateOfBirth"),
		Address:        pathString(root, "reportSummary.personalDetails.address"),
		Pincode:        pathString(root, "reportSummary.personalDetails.pincode"),
		EmploymentType: pathString(root, "reportSummary.personalDetails.occupation"),
		Income:         pathNumeric(root, "reportSummary.personalDetails.totalIncome"),
		CIBILScore:     pathNumeric(root, "reportSummary.creditScore.score"),

		TotalAccounts:    pathNumeric(root, "reportSummary.accountSummary.totalAccounts"),
		ActiveAccounts:   pathNumeric(root, "reportSummary.accountSummary.openAccounts"),
		ClosedAccounts:   pathNumeric(root, "reportSummary.accountSummary.zeroBalanceAccounts"),
		TotalOutstanding: pathNumeric(root, "reportSummary.accountSummary.totalBalanceAmount"),
		TotalSanctioned:  pathNumeric(root, "reportSummary.accountSummary.totalSanctionedAmount"),
		TotalEMI:         pathNumeric(root, "reportSummary.accountSummary.totalMonthlyPaymentAmount"),
		TotalPastDue:     pathNumeric(root, "reportSummary.accountSummary.totalPastDueAmount"),
		RecentEnquiries:  pathNumeric(root, "creditAnalysis.enquiries.summary.last30Days"),

		Source: "CPL_Trustell_Mapped",
	}

	analysis := asMap(root["creditAnalysis"])
	var loans []model.Loan
	for _, item := range asSlice(analysis["creditCards"]) {
		loans = append(loans, cplLoan(asMap(item), customerID))
	}
	// Loans arrive keyed by category name; the raw accountType on each node
	// is still what drives bucket mapping downstream.
	if byCategory, ok := analysis["loans"].(map[string]any); ok {
		for _, category := range sortedKeys(byCategory) {
			for _, item := range asSlice(byCategory[category]) {
				loans = append(loans, cplLoan(asMap(item), customerID))
			}
		}
	}
	for _, item := range asSlice(analysis["otherLoans"]) {
		loans = append(loans, cplLoan(asMap(item), customerID))
	}

	var enqs []model.Enquiry
	for _, item := range asSlice(lookupKeys(analysis, "enquiries", "recent")) {
		e := asMap(item)
		enqs = append(enqs, model.Enquiry{
			CustomerID: customerID,
			Date:       field(e, "date"),
			Lender:     field(e, "lender"),
			Amount:     cleanNumeric(e["amount"]),
			Purpose:    field(e, "purpose"),
		})
	}

	return lead, loans, enqs
}

// cplRoot unwraps the varying envelopes this format ships in:
// data.reportData, bare reportData, or the payload itself, with an optional
// ccrResponse layer inside.
func cplRoot(data map[string]any) map[string]any {
	root := asMap(lookupKeys(data, "data", "reportData"))
	if len(root) == 0 {
		root = asMap(data["reportData"])
	}
	if len(root) == 0 {
		root = data
	}
	if inner, ok := root["ccrResponse"].(map[string]any); ok {
		root = inner
	}
	return root
}

func cplLoan(node map[string]any, customerID string) model.Loan {
	accountType := field(node, "accountType")
	if accountType == "" {
		accountType = "Other"
	}
	return model.Loan{
		CustomerID:          customerID,
		AccountTypeCategory: accountType,
		BankName:            field(node, "provider"),
		AccountNumber:       field(node, "accountNumber"),
		Status:              field(node, "accountStatus"),
		SanctionedAmount:    cleanNumeric(node["sanctionedAmount"]),
		CurrentBalance:      cleanNumeric(node["outstanding"]),
		EMIAmount:           cleanNumeric(node["emi"]),
		DateOpened:          field(node, "accountOpenDate"),
		DateClosed:          field(node, "accountCloseDate"),
		DateReported:        field(node, "dateReported"),
		RateOfInterest:      field(node, "rateOfInterest"),
		RepaymentTenure:     field(node, "repaymentTenure"),
		OverdueAmount:       cleanNumeric(node["accountPastDueAmount"]),
		WriteOffAmount:      cleanNumeric(node["writtenOffAmtTotal"]),
		PaymentHistory:      paymentHistory(node),
	}
}

// paymentHistory normalizes the two shapes paymentHistory arrives in: a
// plain string or a list of month objects with a status field.
func paymentHistory(node map[string]any) string {
	switch ph := node["paymentHistory"].(type) {
	case nil:
		return ""
	case string:
		return ph
	case []any:
		statuses := make([]string, 0, len(ph))
		for _, entry := range ph {
			statuses = append(statuses, field(asMap(entry), "status"))
		}
		return strings.Join(statuses, ", ")
	default:
		return asString(ph)
	}
}
