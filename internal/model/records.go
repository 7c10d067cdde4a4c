package model

import "time"

// Commitment is a lender's funding pledge against a project.
type Commitment struct {
	ID             string     `json:"id"`
	ProjectRef     string     `json:"project_reference_id"`
	UserID         string     `json:"user_id"`
	Amount         int64      `json:"amount"`
	Status         string     `json:"status"`
	InterestRate   float64    `json:"interest_rate"`
	TenureMonths   int        `json:"tenure_months"`
	CreatedAt      *time.Time `json:"created_at"`
	LenderNote     string     `json:"lender_note,omitempty"`
}

// Question is one entry in a project's Q&A thread.
type Question struct {
	ID         string     `json:"id"`
	ProjectRef string     `json:"project_reference_id"`
	UserID     string     `json:"user_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	AskedAt    *time.Time `json:"asked_at"`
	AnsweredAt *time.Time `json:"answered_at"`
}

// Note is a lender's private annotation on a project.
type Note struct {
	ID         string     `json:"id"`
	ProjectRef string     `json:"project_reference_id"`
	UserID     string     `json:"user_id"`
	Body       string     `json:"note"`
	CreatedAt  *time.Time `json:"created_at"`
}

// DocumentRequest is a lender's ask for paperwork from a municipality.
type DocumentRequest struct {
	ID          string     `json:"id"`
	ProjectRef  string     `json:"project_reference_id"`
	RequestedBy string     `json:"requested_by"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RequestedAt *time.Time `json:"requested_at"`
	FulfilledAt *time.Time `json:"fulfilled_at"`
}

// UploadedDocument describes a file the municipality attached in response.
type UploadedDocument struct {
	ID        string     `json:"id"`
	FileName  string     `json:"file_name"`
	SizeBytes int64      `json:"size_bytes"`
	MimeType  string     `json:"mime_type"`
	UploadedAt *time.Time `json:"uploaded_at"`
}

// Meeting is scheduled between a lender and a municipality over a project.
type Meeting struct {
	ID          string     `json:"id"`
	ProjectRef  string     `json:"project_reference_id"`
	RequestedBy string     `json:"requested_by"`
	Subject     string     `json:"subject"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	MeetingLink string     `json:"meeting_link,omitempty"`
	Status      string     `json:"status"`
}

// ProjectDraft is an incomplete project record prior to submission. The
// backend owns validation and approval; this is a transport shape only.
type ProjectDraft struct {
	ID                 string     `json:"id,omitempty"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	State              string     `json:"state"`
	City               string     `json:"city"`
	Ward               string     `json:"ward"`
	FundingRequirement int64      `json:"funding_requirement"`
	InterestRate       float64    `json:"interest_rate"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	FundraiseStart     *time.Time `json:"fundraising_start_date,omitempty"`
	FundraiseEnd       *time.Time `json:"fundraising_end_date,omitempty"`
	Description        string     `json:"description,omitempty"`
}

// FundingSnapshot is the locally persisted view of a project's funding at
// the last watch poll, used to detect movement between polls.
type FundingSnapshot struct {
	ProjectRef      string
	Title           string
	CommittedAmount int64
	CommitmentGap   int64
	Progress        int
	ObservedAt      time.Time
}
