package bureau

import (
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// extractExperianRaw handles the raw Experian wire format: everything hangs
// off xmlJsonResponse, tradelines under caisAccount and hard pulls under
// caps. Lead-level sanctioned/EMI/past-due totals are not reported by this
// variant and are summed from the tradelines instead.
func extractExperianRaw(data map[string]any, customerID string) (*model.Lead, []model.Loan, []model.Enquiry) {
	root := asMap(data["xmlJsonResponse"])
	appDetails := asMap(lookupKeys(root, "currentApplication", "currentApplicationDetails"))
	applicant := asMap(appDetails["currentApplicantdetails"])
	other := asMap(appDetails["currentOtherDetails"])

	addr := appDetails["currentApplicantAddressDetails"]
	if arr, ok := addr.([]any); ok {
		if len(arr) == 0 {
			addr = nil
		} else {
			addr = arr[0]
		}
	}
	cais := asMap(lookupKeys(root, "caisAccount", "caisSummary"))

	lead := &model.Lead{
		CustomerID:     customerID,
		FullName:       strings.TrimSpace(field(applicant, "firstName") + " " + field(applicant, "lastName")),
		PAN:            field(applicant, "incomeTaxPan"),
		Mobile:         field(applicant, "mobilePhoneNumber"),
		Email:          field(applicant, "emailId"),
		Gender:         field(applicant, "genderCode"),
		DOB:            field(applicant, "dateOfBirthApplicant"),
		EmploymentType: field(other, "employmentStatus"),
		Income:         cleanNumeric(other["income"]),
		Address:        formatAddress(addr),
		Pincode:        field(asMap(addr), "pinCode"),
		CIBILScore:     cleanNumeric(lookupKeys(root, "score", "bureauScore")),

		TotalAccounts:    cleanNumeric(lookupKeys(cais, "creditAccount", "creditAccountTotal")),
		ActiveAccounts:   cleanNumeric(lookupKeys(cais, "creditAccount", "creditAccountActive")),
		ClosedAccounts:   cleanNumeric(lookupKeys(cais, "creditAccount", "creditAccountClosed")),
		TotalOutstanding: cleanNumeric(lookupKeys(cais, "totalOutStandingBalance", "outstandingBalanceAll")),
		RecentEnquiries:  cleanNumeric(lookupKeys(root, "caps", "capsSummary", "capsLast30Days")),

		Source: "Experian_Raw",
	}

	var loans []model.Loan
	for _, item := range asSlice(lookupKeys(root, "caisAccount", "caisAccountDetails")) {
		acct, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sanctioned := cleanNumeric(acct["highestCreditOrOrignalLoanAmount"])
		emi := cleanNumeric(acct["scheduledMonthlyPaymentAmount"])
		pastDue := cleanNumeric(acct["amountPastDue"])
		lead.TotalSanctioned += sanctioned
		lead.TotalEMI += emi
		lead.TotalPastDue += pastDue

		loans = append(loans, model.Loan{
			CustomerID:          customerID,
			AccountTypeCategory: field(acct, "accountType"),
			BankName:            field(acct, "subscriberName"),
			AccountNumber:       field(acct, "accountNumber"),
			Status:              field(acct, "accountStatus"),
			SanctionedAmount:    sanctioned,
			CurrentBalance:      cleanNumeric(acct["currentBalance"]),
			EMIAmount:           emi,
			DateOpened:          field(acct, "openDate"),
			DateClosed:          field(acct, "dateClosed"),
			DateReported:        field(acct, "dateReported"),
			RateOfInterest:      field(acct, "rateOfInterest"),
			RepaymentTenure:     field(acct, "repaymentTenure"),
			OverdueAmount:       pastDue,
			WriteOffAmount:      cleanNumeric(acct["writtenOffAmtTotal"]),
			PaymentHistory:      field(acct, "paymentHistoryProfile"),
		})
	}

	var enqs []model.Enquiry
	for _, item := range asSlice(lookupKeys(root, "caps", "capsApplicationDetailList")) {
		app, ok := item.(map[string]any)
		if !ok {
			continue
		}
		enqs = append(enqs, model.Enquiry{
			CustomerID: customerID,
			Date:       field(app, "dateOfRequest"),
			Lender:     field(app, "subscriberName"),
			Amount:     cleanNumeric(app["amountFinanced"]),
			Purpose:    field(app, "financePurpose"),
		})
	}

	return lead, loans, enqs
}
