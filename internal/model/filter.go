package model

// Range is a user-selected numeric interval. Currency ranges are held in
// crore, the unit the filter panel works in; everything else is in its
// natural unit (percent, days, rate).
type Range struct {
	Min float64
	Max float64
}

// FilterState is the transient filter-panel value object. It lives for one
// mounted screen: seeded with full-width defaults from the value ranges,
// mutated by the user, discarded on navigation. Never persisted.
type FilterState struct {
	Search     string
	Categories []string
	States     []string
	Statuses   []string

	FundingRequirement Range // crore
	CommitmentGap      Range // crore
	ProjectCost        Range // crore
	Progress           Range // percent
	DaysLeft           Range
	InterestRate       Range // percent

	UserID string
	Skip   int
	Limit  int
}

const croreRupees = 10_000_000

// DefaultFilterState seeds a filter with the full valid width for every
// range, so a freshly mounted screen sends no range parameters at all.
func DefaultFilterState(ranges ValueRanges) FilterState {
	return FilterState{
		FundingRequirement: fullWidth(ranges.FundingRequirement),
		CommitmentGap:      fullWidth(ranges.CommitmentGap),
		ProjectCost:        fullWidth(ranges.ProjectCost),
		Progress:           Range{Min: 0, Max: 100},
		DaysLeft:           Range{Min: 0, Max: 365},
		InterestRate:       Range{Min: 0, Max: 100},
		Limit:              100,
	}
}

func fullWidth(m MinMax) Range {
	return Range{Min: m.Min / croreRupees, Max: m.Max / croreRupees}
}
