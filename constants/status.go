package constants

// JobStatus is the canonical status for rows in extract_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusExtracted JobStatus = "EXTRACTED" // fields extracted from text/JSON
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

// ClaimStatus is the canonical status for rows in claims.
type ClaimStatus string

const (
	ClaimStatusFormGenerated ClaimStatus = "FORM_GENERATED"
	ClaimStatusSubmitted     ClaimStatus = "SUBMITTED"
	ClaimStatusRejected      ClaimStatus = "REJECTED"
)

// JobStatuses lists the stable job status strings for schema validation.
var JobStatuses = []string{
	string(JobStatusQueued),
	string(JobStatusRunning),
	string(JobStatusExtracted),
	string(JobStatusFailed),
}

// ClaimStatuses lists the stable claim status strings for schema validation.
var ClaimStatuses = []string{
	string(ClaimStatusFormGenerated),
	string(ClaimStatusSubmitted),
	string(ClaimStatusRejected),
}
