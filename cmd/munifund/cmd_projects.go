package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"munifund/internal/format"
	"munifund/internal/model"
	"munifund/internal/query"
	"munifund/internal/tui"
)

var listFlags struct {
	search     string
	match      string
	categories []string
	states     []string
	statuses   []string
	minFunding float64
	maxFunding float64
	minGap     float64
	maxGap     float64
	minProg    float64
	maxProg    float64
	maxDays    float64
	sortBy     string
	skip       int
	limit      int
	asJSON     bool
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with server-side filters",
	Long: `Fetches one page of project listings. Range filters are expressed in
crore and sent only when they narrow the full observed range; --match
narrows the fetched page locally by reference or title, for the filters the
listing endpoint does not support.`,
	RunE: runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	api := newAPI()
	ctx := cmd.Context()

	ranges, err := api.ValueRanges(ctx)
	if err != nil {
		return err
	}

	filter := model.DefaultFilterState(ranges)
	filter.Search = listFlags.search
	filter.Categories = listFlags.categories
	filter.States = listFlags.states
	filter.Statuses = listFlags.statuses
	filter.UserID = cfg.UserID
	filter.Skip = listFlags.skip
	if listFlags.limit > 0 {
		filter.Limit = listFlags.limit
	}
	applyRangeFlag(&filter.FundingRequirement, listFlags.minFunding, listFlags.maxFunding)
	applyRangeFlag(&filter.CommitmentGap, listFlags.minGap, listFlags.maxGap)
	applyRangeFlag(&filter.Progress, listFlags.minProg, listFlags.maxProg)
	if listFlags.maxDays >= 0 {
		filter.DaysLeft.Max = listFlags.maxDays
	}

	projects, err := api.ListProjects(ctx, query.Params(filter, ranges))
	if err != nil {
		return err
	}

	projects = query.PostFilter(projects, listFlags.match)
	query.SortProjects(projects, listFlags.sortBy)

	if listFlags.asJSON {
		return json.NewEncoder(os.Stdout).Encode(projects)
	}
	printProjectTable(projects)
	return nil
}

// applyRangeFlag maps a -1 sentinel ("not set") to "leave the full width".
func applyRangeFlag(r *model.Range, min, max float64) {
	if min >= 0 {
		r.Min = min
	}
	if max >= 0 {
		r.Max = max
	}
}

func printProjectTable(projects []model.Project) {
	if len(projects) == 0 {
		fmt.Println("no projects match the given filters")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tTITLE\tCATEGORY\tSTATUS\tGAP\tCOMMITTED\tPROGRESS\tDAYS LEFT")
	now := time.Now()
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d%%\t%d\n",
			p.ReferenceID, p.Title, p.Category, p.Status,
			format.Currency(p.CommitmentGap),
			format.Currency(p.CommittedAmount),
			format.Progress(p.CommittedAmount, p.CommitmentGap),
			format.DaysLeft(now, p.FundraiseEnd),
		)
	}
	_ = w.Flush()
}

var projectDocsFlag bool

var projectCmd = &cobra.Command{
	Use:   "project [reference-id]",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := newAPI()
		p, err := api.GetProject(cmd.Context(), args[0], projectDocsFlag)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", p.ReferenceID, p.Title)
		fmt.Printf("category: %s  stage: %s  status: %s\n", p.Category, p.Stage, p.Status)
		fmt.Printf("location: %s / %s / ward %s\n", p.State, p.City, p.Ward)
		fmt.Printf("funding requirement: %s\n", format.Currency(p.FundingRequirement))
		fmt.Printf("commitment gap:      %s\n", format.Currency(p.CommitmentGap))
		fmt.Printf("committed:           %s (%d%%)\n",
			format.Currency(p.CommittedAmount), format.Progress(p.CommittedAmount, p.CommitmentGap))
		if p.FundraiseEnd != nil {
			fmt.Printf("fundraising closes:  %s (%d days left)\n",
				p.FundraiseEnd.Format("2006-01-02"), format.DaysLeft(time.Now(), p.FundraiseEnd))
		}
		if projectDocsFlag {
			fmt.Println("\ndocuments:")
			for _, doc := range p.Documents {
				fmt.Printf("  %s  %s  (%s)\n", doc.ID, doc.FileName, format.FileSize(doc.SizeBytes))
			}
			if len(p.Documents) == 0 {
				fmt.Println("  none")
			}
		}
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive project listing screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		program := tea.NewProgram(tui.NewModel(newAPI(), cfg.UserID), tea.WithAltScreen())
		_, err := program.Run()
		return err
	},
}

var portfolioCategories []string

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Summarize my favorited projects and commitments",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		api := newAPI()

		projects, err := api.ListProjects(cmd.Context(), map[string]string{
			"user_id":        userID,
			"favorites_only": "true",
			"limit":          "100",
		})
		if err != nil {
			return err
		}

		// The favorites listing has no category parameter upstream.
		projects = query.FilterByCategory(projects, portfolioCategories)

		printProjectTable(projects)
		fmt.Println()
		summarizeAndPrint(projects)
		return nil
	},
}

func init() {
	projectsCmd.Flags().StringVar(&listFlags.search, "search", "", "Free-text search")
	projectsCmd.Flags().StringVar(&listFlags.match, "match", "", "Client-side match on reference or title")
	projectsCmd.Flags().StringSliceVar(&listFlags.categories, "category", nil, "Filter by category (repeatable)")
	projectsCmd.Flags().StringSliceVar(&listFlags.states, "state", nil, "Filter by state (repeatable)")
	projectsCmd.Flags().StringSliceVar(&listFlags.statuses, "status", nil, "Filter by status (repeatable)")
	projectsCmd.Flags().Float64Var(&listFlags.minFunding, "min-funding", -1, "Minimum funding requirement, in crore")
	projectsCmd.Flags().Float64Var(&listFlags.maxFunding, "max-funding", -1, "Maximum funding requirement, in crore")
	projectsCmd.Flags().Float64Var(&listFlags.minGap, "min-gap", -1, "Minimum commitment gap, in crore")
	projectsCmd.Flags().Float64Var(&listFlags.maxGap, "max-gap", -1, "Maximum commitment gap, in crore")
	projectsCmd.Flags().Float64Var(&listFlags.minProg, "min-progress", -1, "Minimum funding progress, percent")
	projectsCmd.Flags().Float64Var(&listFlags.maxProg, "max-progress", -1, "Maximum funding progress, percent")
	projectsCmd.Flags().Float64Var(&listFlags.maxDays, "max-days-left", -1, "Maximum days left in the fundraising window")
	projectsCmd.Flags().StringVar(&listFlags.sortBy, "sort", "", "Sort page by: title, funding, committed, progress")
	projectsCmd.Flags().IntVar(&listFlags.skip, "skip", 0, "Pagination offset")
	projectsCmd.Flags().IntVar(&listFlags.limit, "limit", 0, "Page size (default 100)")
	projectsCmd.Flags().BoolVar(&listFlags.asJSON, "json", false, "Emit raw JSON")

	projectCmd.Flags().BoolVar(&projectDocsFlag, "documents", false, "Include uploaded documents")

	portfolioCmd.Flags().StringSliceVar(&portfolioCategories, "category", nil, "Narrow the portfolio locally by category")
}
