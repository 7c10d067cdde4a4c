// Package query translates filter-panel state into the wire parameters the
// listing endpoint expects, and narrows fetched pages where the backend
// lacks a filter.
package query

import (
	"math"
	"strconv"
	"strings"

	"munifund/internal/model"
)

const croreRupees = 10_000_000

// Tolerance for "user left the slider where it started". Range values come
// from float math on the calibration endpoint, so exact equality is too
// strict.
const rangeEpsilon = 1e-9

// Params flattens a FilterState into the query parameters of GET /projects.
// A range endpoint is emitted only when it differs from the full valid
// width, so an untouched panel sends no range filters at all. Currency
// ranges are selected in crore and multiplied back to rupees on the wire.
// An inverted range (min > max) is passed through as-is; the backend simply
// matches nothing.
func Params(f model.FilterState, ranges model.ValueRanges) map[string]string {
	params := map[string]string{
		"skip": strconv.Itoa(f.Skip),
	}
	if f.Limit > 0 {
		params["limit"] = strconv.Itoa(f.Limit)
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		params["search"] = search
	}
	putList(params, "categories", f.Categories)
	putList(params, "states", f.States)
	putList(params, "status", f.Statuses)
	if f.UserID != "" {
		params["user_id"] = f.UserID
	}

	putCrore(params, "funding_requirement", f.FundingRequirement, fullWidth(ranges.FundingRequirement))
	putCrore(params, "commitment_gap", f.CommitmentGap, fullWidth(ranges.CommitmentGap))
	putCrore(params, "project_cost", f.ProjectCost, fullWidth(ranges.ProjectCost))

	putInt(params, "progress", f.Progress, model.Range{Min: 0, Max: 100})
	putInt(params, "days_left", f.DaysLeft, model.Range{Min: 0, Max: 365})
	putFloat(params, "interest_rate", f.InterestRate, model.Range{Min: 0, Max: 100})

	return params
}

func fullWidth(m model.MinMax) model.Range {
	return model.Range{Min: m.Min / croreRupees, Max: m.Max / croreRupees}
}

func putList(params map[string]string, key string, values []string) {
	if len(values) > 0 {
		params[key] = strings.Join(values, ",")
	}
}

func putCrore(params map[string]string, name string, r, full model.Range) {
	if differs(r.Min, full.Min) {
		params["min_"+name] = strconv.FormatInt(int64(math.Round(r.Min*croreRupees)), 10)
	}
	if differs(r.Max, full.Max) {
		params["max_"+name] = strconv.FormatInt(int64(math.Round(r.Max*croreRupees)), 10)
	}
}

func putInt(params map[string]string, name string, r, full model.Range) {
	if differs(r.Min, full.Min) {
		params["min_"+name] = strconv.Itoa(int(math.Round(r.Min)))
	}
	if differs(r.Max, full.Max) {
		params["max_"+name] = strconv.Itoa(int(math.Round(r.Max)))
	}
}

func putFloat(params map[string]string, name string, r, full model.Range) {
	if differs(r.Min, full.Min) {
		params["min_"+name] = strconv.FormatFloat(r.Min, 'f', -1, 64)
	}
	if differs(r.Max, full.Max) {
		params["max_"+name] = strconv.FormatFloat(r.Max, 'f', -1, 64)
	}
}

func differs(a, b float64) bool {
	return math.Abs(a-b) > rangeEpsilon
}
