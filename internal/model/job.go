package model

// JobStatus represents the current state of an ETL job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusCounting   JobStatus = "counting"
	JobStatusExtracting JobStatus = "extracting"
	JobStatusMerging    JobStatus = "merging"
	JobStatusCleaning   JobStatus = "cleaning"
	JobStatusWriting    JobStatus = "writing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is a final state.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Progress is pushed to the UI collaborator at every stage boundary.
// Percent is monotonically non-decreasing within a job.
type Progress struct {
	Stage   JobStatus `json:"stage"`
	Status  string    `json:"status"`
	Percent int       `json:"progress"`
}

// SourceRow is one row yielded by the external row source.
type SourceRow struct {
	CustomerID string `json:"customer_id"`
	// RawData is either an inline JSON payload or a URL suffix,
	// depending on the job's remote-fetch mode.
	RawData    string `json:"raw_data"`
	RecordDate string `json:"record_date,omitempty"`
	PAN        string `json:"pan,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
}

// BatchRecords accumulates the four record collections for one batch.
type BatchRecords struct {
	Leads     []Lead         `json:"leads"`
	Loans     []Loan         `json:"loans"`
	Enquiries []Enquiry      `json:"enquiries"`
	Analytics []AnalyticsRow `json:"analytics"`
}

// Empty reports whether the batch produced no records at all.
func (b *BatchRecords) Empty() bool {
	return len(b.Leads) == 0 && len(b.Loans) == 0 && len(b.Enquiries) == 0 && len(b.Analytics) == 0
}

// Append merges other into b.
func (b *BatchRecords) Append(other BatchRecords) {
	b.Leads = append(b.Leads, other.Leads...)
	b.Loans = append(b.Loans, other.Loans...)
	b.Enquiries = append(b.Enquiries, other.Enquiries...)
	b.Analytics = append(b.Analytics, other.Analytics...)
}

// JobResult is the final outcome handed to the UI collaborator.
type JobResult struct {
	Status         JobStatus `json:"status"`
	TotalFetched   int       `json:"total_fetched"`
	TotalRows      int       `json:"total_rows"`
	EmployeesFound int       `json:"employees_found"`
	SkippedRows    int       `json:"skipped_rows,omitempty"`
	SkippedBatches int       `json:"skipped_batches,omitempty"`
	OutputFiles    []string  `json:"output_files,omitempty"`
	Error          string    `json:"error,omitempty"`
}
