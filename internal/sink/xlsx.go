// Package sink renders the final record collections into xlsx workbooks:
// one for the clean partition and, when non-empty, one for the excluded
// partition (duplicates plus internal employees).
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/bureau-etl/internal/cleaner"
	"github.com/sells-group/bureau-etl/internal/model"
)

// Partition is one workbook's worth of records.
type Partition struct {
	Leads     []model.Lead
	Employees []model.Lead
	Loans     []model.Loan
	Enquiries []model.Enquiry
	Analytics []model.AnalyticsRow
	Tracker   []cleaner.TrackerEntry
}

// Empty reports whether the partition has nothing worth writing.
func (p Partition) Empty() bool {
	return len(p.Leads) == 0 && len(p.Employees) == 0
}

// Writer renders workbooks into an output directory.
type Writer struct {
	Dir string
}

// WriteClean writes the clean workbook and returns its path.
func (w Writer) WriteClean(sourceDB string, p Partition) (string, error) {
	return w.write(workbookPath(w.Dir, sourceDB, "Clean"), p)
}

// WriteExcluded writes the duplicates/employees workbook and returns its
// path.
func (w Writer) WriteExcluded(sourceDB string, p Partition) (string, error) {
	return w.write(workbookPath(w.Dir, sourceDB, "Excluded"), p)
}

func workbookPath(dir, sourceDB, suffix string) string {
	stamp := time.Now().Format("20060102_1504")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.xlsx", sourceDB, stamp, suffix))
}

func (w Writer) write(path string, p Partition) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrap(err, "sink: create output dir")
	}

	f := xlsx.NewFile()

	if len(p.Tracker) > 0 {
		if err := trackerSheet(f, p.Tracker); err != nil {
			return "", err
		}
	}
	if err := leadSheet(f, "Leads", p.Leads, true); err != nil {
		return "", err
	}
	if len(p.Employees) > 0 {
		if err := leadSheet(f, "Internal_Employees", p.Employees, true); err != nil {
			return "", err
		}
	}
	if err := analyticsSheet(f, p.Analytics); err != nil {
		return "", err
	}

	// One sheet per bucket with tradelines in it, then the full set.
	for _, bucket := range model.Buckets() {
		var subset []model.Loan
		for _, l := range p.Loans {
			if l.MappedCategory == bucket {
				subset = append(subset, l)
			}
		}
		if len(subset) == 0 {
			continue
		}
		if err := loanSheet(f, bucket, subset); err != nil {
			return "", err
		}
	}
	if err := loanSheet(f, "All_Tradelines", p.Loans); err != nil {
		return "", err
	}
	if err := enquirySheet(f, p.Enquiries); err != nil {
		return "", err
	}

	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "sink: save workbook")
	}
	return path, nil
}

func trackerSheet(f *xlsx.File, tracker []cleaner.TrackerEntry) error {
	sheet, err := f.AddSheet("Processing_Tracker")
	if err != nil {
		return eris.Wrap(err, "sink: add tracker sheet")
	}
	writeRow(sheet, "Stage", "Count")
	for _, entry := range tracker {
		row := sheet.AddRow()
		row.AddCell().SetString(entry.Stage)
		row.AddCell().SetInt(entry.Count)
	}
	return nil
}

var leadHeader = []string{
	"S.No", "Customer_ID", "Record_Date", "Record_Month", "Customer_Name",
	"PAN", "Mobile", "City_Mapped", "State_Mapped", "Zone_Mapped",
	"CIBIL_Score", "CIBIL_Band", "Total_Accounts", "Active_Accounts",
	"Closed_Accounts", "Total_Outstanding", "Total_Sanctioned", "Total_EMI",
	"Total_Past_Due", "Income", "Employment_Type", "Source", "Source_DB",
}

func leadSheet(f *xlsx.File, name string, leads []model.Lead, numbered bool) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "sink: add sheet %s", name)
	}
	writeRow(sheet, leadHeader...)
	for i, l := range leads {
		row := sheet.AddRow()
		if numbered {
			row.AddCell().SetInt(i + 1)
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(l.CustomerID)
		row.AddCell().SetString(l.RecordDate)
		row.AddCell().SetString(recordMonth(l.RecordDate))
		row.AddCell().SetString(l.FullName)
		row.AddCell().SetString(l.PAN)
		row.AddCell().SetString(l.Mobile)
		row.AddCell().SetString(l.CityMapped)
		row.AddCell().SetString(l.StateMapped)
		row.AddCell().SetString(l.ZoneMapped)
		row.AddCell().SetFloat(l.CIBILScore)
		row.AddCell().SetString(l.CIBILBand)
		row.AddCell().SetFloat(l.TotalAccounts)
		row.AddCell().SetFloat(l.ActiveAccounts)
		row.AddCell().SetFloat(l.ClosedAccounts)
		row.AddCell().SetFloat(l.TotalOutstanding)
		row.AddCell().SetFloat(l.TotalSanctioned)
		row.AddCell().SetFloat(l.TotalEMI)
		row.AddCell().SetFloat(l.TotalPastDue)
		row.AddCell().SetFloat(l.Income)
		row.AddCell().SetString(l.EmploymentType)
		row.AddCell().SetString(l.Source)
		row.AddCell().SetString(l.SourceDB)
	}
	return nil
}

func analyticsSheet(f *xlsx.File, rows []model.AnalyticsRow) error {
	sheet, err := f.AddSheet("Lead_Analysis")
	if err != nil {
		return eris.Wrap(err, "sink: add analysis sheet")
	}

	header := []string{"Customer_ID", "City", "State", "Zone"}
	for _, bucket := range model.Buckets() {
		prefix := bucketPrefix(bucket)
		header = append(header,
			prefix+"_Count", prefix+"_Lenders", prefix+"_Sanctioned", prefix+"_Balance")
	}
	header = append(header, "Total_Active_Loans", "Total_EMI_Obligation", "Source_DB")
	writeRow(sheet, header...)

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.CustomerID)
		row.AddCell().SetString(r.City)
		row.AddCell().SetString(r.State)
		row.AddCell().SetString(r.Zone)
		for _, bucket := range model.Buckets() {
			stat := r.Categories[bucket]
			row.AddCell().SetInt(stat.Count)
			row.AddCell().SetString(stat.Lenders)
			row.AddCell().SetString(stat.Sanctioned)
			row.AddCell().SetFloat(stat.Balance)
		}
		row.AddCell().SetInt(r.TotalActiveLoans)
		row.AddCell().SetFloat(r.TotalEMIObligation)
		row.AddCell().SetString(r.SourceDB)
	}
	return nil
}

var loanHeader = []string{
	"Customer_ID", "Record_Date", "Customer_Name", "PAN", "Mobile",
	"Account_Type_Category", "Mapped_Category", "Bank_Name", "Account_Number",
	"Status", "Sanctioned_Amount", "Current_Balance", "EMI_Amount",
	"Overdue_Amount", "Write_Off_Amount", "Date_Opened", "Loan_Start_Month",
	"Date_Closed", "Date_Reported", "Rate_Of_Interest", "Repayment_Tenure",
	"Payment_History", "Source_DB",
}

func loanSheet(f *xlsx.File, name string, loans []model.Loan) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "sink: add sheet %s", name)
	}
	writeRow(sheet, loanHeader...)
	for _, l := range loans {
		row := sheet.AddRow()
		row.AddCell().SetString(l.CustomerID)
		row.AddCell().SetString(l.RecordDate)
		row.AddCell().SetString(l.CustomerName)
		row.AddCell().SetString(l.PAN)
		row.AddCell().SetString(l.Mobile)
		row.AddCell().SetString(l.AccountTypeCategory)
		row.AddCell().SetString(l.MappedCategory)
		row.AddCell().SetString(l.BankName)
		row.AddCell().SetString(l.AccountNumber)
		row.AddCell().SetString(l.Status)
		row.AddCell().SetFloat(l.SanctionedAmount)
		row.AddCell().SetFloat(l.CurrentBalance)
		row.AddCell().SetFloat(l.EMIAmount)
		row.AddCell().SetFloat(l.OverdueAmount)
		row.AddCell().SetFloat(l.WriteOffAmount)
		row.AddCell().SetString(l.DateOpened)
		row.AddCell().SetString(recordMonth(l.DateOpened))
		row.AddCell().SetString(l.DateClosed)
		row.AddCell().SetString(l.DateReported)
		row.AddCell().SetString(l.RateOfInterest)
		row.AddCell().SetString(l.RepaymentTenure)
		row.AddCell().SetString(l.PaymentHistory)
		row.AddCell().SetString(l.SourceDB)
	}
	return nil
}

func enquirySheet(f *xlsx.File, enqs []model.Enquiry) error {
	sheet, err := f.AddSheet("Enquiries")
	if err != nil {
		return eris.Wrap(err, "sink: add enquiries sheet")
	}
	writeRow(sheet, "Customer_ID", "Record_Date", "Customer_Name", "PAN",
		"Mobile", "Date", "Lender", "Amount", "Purpose", "Source_DB")
	for _, q := range enqs {
		row := sheet.AddRow()
		row.AddCell().SetString(q.CustomerID)
		row.AddCell().SetString(q.RecordDate)
		row.AddCell().SetString(q.CustomerName)
		row.AddCell().SetString(q.PAN)
		row.AddCell().SetString(q.Mobile)
		row.AddCell().SetString(q.Date)
		row.AddCell().SetString(q.Lender)
		row.AddCell().SetFloat(q.Amount)
		row.AddCell().SetString(q.Purpose)
		row.AddCell().SetString(q.SourceDB)
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

// recordMonth derives the "Jan-2006" reporting month from a date string.
// Source dates arrive in several layouts; unparseable ones yield "".
var dateLayouts = []string{
	"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02-01-2006", "02/01/2006", "20060102",
}

func recordMonth(date string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Jan-2006")
		}
	}
	return ""
}

func bucketPrefix(bucket string) string {
	switch bucket {
	case model.BucketCreditCard:
		return "Credit"
	default:
		// "Home_Loans" -> "Home"
		if i := len(bucket) - len("_Loans"); i > 0 {
			return bucket[:i]
		}
		return bucket
	}
}
