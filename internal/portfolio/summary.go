package portfolio

import (
	"munifund/internal/format"
	"munifund/internal/model"
)

// Summary is the my-investments aggregate shown by the CLI and the local
// dashboard facade.
type Summary struct {
	Projects       int            `json:"projects"`
	TotalCommitted int64          `json:"total_committed"`
	TotalGap       int64          `json:"total_commitment_gap"`
	AvgProgress    int            `json:"avg_progress"`
	ByStatus       map[string]int `json:"by_status"`
}

// Summarize folds a fetched page of projects into the dashboard numbers.
// Average progress is weighted by commitment gap so large projects do not
// vanish behind small fully-funded ones.
func Summarize(projects []model.Project) Summary {
	summary := Summary{ByStatus: map[string]int{}}

	var weighted, gapTotal float64
	for _, p := range projects {
		summary.Projects++
		summary.TotalCommitted += p.CommittedAmount
		summary.TotalGap += p.CommitmentGap
		summary.ByStatus[p.Status]++

		if p.CommitmentGap > 0 {
			weighted += float64(format.Progress(p.CommittedAmount, p.CommitmentGap)) * float64(p.CommitmentGap)
			gapTotal += float64(p.CommitmentGap)
		}
	}
	if gapTotal > 0 {
		summary.AvgProgress = int(weighted / gapTotal)
	}
	return summary
}
