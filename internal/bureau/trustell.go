package bureau

import (
	"strings"

	"github.com/sells-group/bureau-etl/internal/model"
)

// trueLinkPath locates the report body inside the CIBIL asset-service
// envelope.
const trueLinkPath = "data.cibilData.GetCustomerAssetsResponse.GetCustomerAssetsSuccess.Asset.TrueLinkCreditReport"

// extractTrustellCIBILRaw handles the Trustell-proxied raw CIBIL format.
// An envelope without the TrueLink body still yields a lead so the row
// surfaces in the output with an error source tag.
func extractTrustellCIBILRaw(data map[string]any, customerID string) (*model.Lead, []model.Loan, []model.Enquiry) {
	base, ok := lookupPath(data, trueLinkPath).(map[string]any)
	if !ok {
		return &model.Lead{CustomerID: customerID, Source: "Trustell_Error"}, nil, nil
	}

	borrower := asMap(base["Borrower"])
	addr := map[string]any{}
	if arr := asSlice(borrower["BorrowerAddress"]); len(arr) > 0 {
		addr = asMap(asMap(arr[0])["CreditAddress"])
	}

	var pan string
	if _, present := borrower["IdentifierPartition"]; present {
		pan = strings.TrimSpace(asString(lookupKeys(borrower, "IdentifierPartition", 0, "ID", "Id")))
	}

	lead := &model.Lead{
		CustomerID: customerID,
		FullName:   strings.TrimSpace(asString(lookupKeys(borrower, "BorrowerName", "Name", "Forename"))),
		PAN:        pan,
		Mobile:     strings.TrimSpace(asString(lookupKeys(borrower, "BorrowerTelephone", 0, "PhoneNumber", "Number"))),
		Pincode:    field(addr, "PostalCode"),
		Income:     cleanNumeric(borrower["TotalIncome"]),
		CIBILScore: cleanNumeric(lookupKeys(borrower, "CreditScore", "riskScore")),
		Source:     "Trustell_CIBIL_Raw_Mapped",
	}

	var loans []model.Loan
	for _, item := range asSlice(base["TradeLinePartition"]) {
		tl := asMap(asMap(item)["TradeLine"])
		granted := asMap(tl["GrantedTrade"])
		loans = append(loans, model.Loan{
			CustomerID:          customerID,
			AccountTypeCategory: field(tl, "accountTypeDescription"),
			BankName:            field(tl, "creditorName"),
			AccountNumber:       field(tl, "accountNumber"),
			Status:              strings.TrimSpace(asString(lookupKeys(tl, "OpenClosed", "symbol"))),
			SanctionedAmount:    cleanNumeric(tl["highBalance"]),
			CurrentBalance:      cleanNumeric(tl["currentBalance"]),
			EMIAmount:           cleanNumeric(granted["EMIAmount"]),
			DateOpened:          field(tl, "dateOpened"),
			DateClosed:          field(tl, "dateClosed"),
			DateReported:        field(tl, "dateReported"),
			PaymentHistory:      strings.TrimSpace(asString(lookupKeys(granted, "PayStatusHistory", "status"))),
		})
	}

	var enqs []model.Enquiry
	for _, item := range asSlice(base["InquiryPartition"]) {
		inq := asMap(asMap(item)["Inquiry"])
		enqs = append(enqs, model.Enquiry{
			CustomerID: customerID,
			Date:       field(inq, "inquiryDate"),
			Lender:     field(inq, "subscriberName"),
			Amount:     cleanNumeric(inq["amount"]),
			Purpose:    field(inq, "inquiryType"),
		})
	}

	return lead, loans, enqs
}
