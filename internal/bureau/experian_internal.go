package bureau

import "github.com/sells-group/bureau-etl/internal/model"

// extractExperianInternal handles the in-house Experian summary format. It
// reuses the CPL tradeline node shape but carries no enquiry section and
// only a reduced set of lead fields.
func extractExperianInternal(data map[string]any, customerID string) (*model.Lead, []model.Loan, []model.Enquiry) {
	lead := &model.Lead{
		CustomerID: customerID,
		FullName:   pathString(data, "data.reportData.reportSummary.personalDetails.fullName"),
		PAN:        pathString(data, "data.reportData.reportSummary.personalDetails.pan"),
		Pincode:    pathString(data, "data.reportData.reportSummary.personalDetails.pincode"),
		CIBILScore: pathNumeric(data, "data.reportData.reportSummary.creditScore.score"),
		Source:     "Experian_Internal_Mapped",
	}

	var loans []model.Loan
	for _, item := range asSlice(lookupPath(data, "data.reportData.creditAnalysis.creditCards")) {
		loans = append(loans, internalLoan(asMap(item), customerID))
	}
	if byCategory, ok := lookupPath(data, "data.reportData.creditAnalysis.loans").(map[string]any); ok {
		for _, category := range sortedKeys(byCategory) {
			for _, item := range asSlice(byCategory[category]) {
				loans = append(loans, internalLoan(asMap(item), customerID))
			}
		}
	}

	return lead, loans, nil
}

func internalLoan(node map[string]any, customerID string) model.Loan {
	accountType := field(node, "accountType")
	if accountType == "" {
		accountType = "Other"
	}
	return model.Loan{
		CustomerID:          customerID,
		AccountTypeCategory: accountType,
		BankName:            field(node, "provider"),
		Status:              field(node, "accountStatus"),
		SanctionedAmount:    cleanNumeric(node["sanctionedAmount"]),
		CurrentBalance:      cleanNumeric(node["outstanding"]),
		EMIAmount:           cleanNumeric(node["emi"]),
	}
}
