package model

import "time"

// Project statuses as reported by the funding API.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Project is a municipal infrastructure listing as served by the backend.
// Amounts are rupees. CommittedAmount may exceed CommitmentGap; display
// code clamps rather than trusting the invariant.
type Project struct {
	ReferenceID        string             `json:"reference_id"`
	Title              string             `json:"title"`
	Category           string             `json:"category"`
	Stage              string             `json:"stage"`
	State              string             `json:"state"`
	City               string             `json:"city"`
	Ward               string             `json:"ward"`
	Status             string             `json:"status"`
	FundingRequirement int64              `json:"funding_requirement"`
	CommitmentGap      int64              `json:"commitment_gap"`
	SecuredFunds       int64              `json:"already_secured_funds"`
	CommittedAmount    int64              `json:"total_committed_amount"`
	InterestRate       float64            `json:"interest_rate"`
	IsFavorite         bool               `json:"is_favorite"`
	StartDate          *time.Time         `json:"start_date"`
	EndDate            *time.Time         `json:"end_date"`
	FundraiseStart     *time.Time         `json:"fundraising_start_date"`
	FundraiseEnd       *time.Time         `json:"fundraising_end_date"`
	CreatedAt          *time.Time         `json:"created_at"`
	Documents          []UploadedDocument `json:"documents,omitempty"`
}

// MinMax is an observed bound pair from the value-ranges endpoint, in rupees.
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ValueRanges calibrates the range filters: the backend reports observed
// extremes so a full-width selection can be treated as "no filter".
type ValueRanges struct {
	FundingRequirement MinMax `json:"fund_requirement"`
	CommitmentGap      MinMax `json:"commitment_gap"`
	ProjectCost        MinMax `json:"project_cost"`
}
