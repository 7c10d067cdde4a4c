package portfolio

import (
	"context"

	"munifund/internal/model"
)

// ProjectLister is the slice of the API client the watch service needs.
type ProjectLister interface {
	ListProjects(ctx context.Context, params map[string]string) ([]model.Project, error)
}

// Alert describes a funding movement on a watched project.
type Alert struct {
	ProjectRef    string
	Title         string
	CommitmentGap int64
	PrevCommitted int64
	NewCommitted  int64
	PrevProgress  int
	NewProgress   int
	FirstSeen     bool
}

type Notifier interface {
	FundingAlert(alert Alert)
}
