package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"munifund/internal/format"
	"munifund/internal/model"
	"munifund/internal/portfolio"
)

func summarizeAndPrint(projects []model.Project) {
	summary := portfolio.Summarize(projects)
	fmt.Printf("projects: %d  committed: %s  open gap: %s  avg progress: %d%%\n",
		summary.Projects,
		format.Currency(summary.TotalCommitted),
		format.Currency(summary.TotalGap),
		summary.AvgProgress,
	)
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite [reference-id]",
	Short: "Favorite a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		if err := newAPI().AddFavorite(cmd.Context(), userID, args[0]); err != nil {
			return err
		}
		fmt.Printf("favorited %s\n", args[0])
		return nil
	},
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite [reference-id]",
	Short: "Remove a project from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		if err := newAPI().RemoveFavorite(cmd.Context(), userID, args[0]); err != nil {
			return err
		}
		fmt.Printf("unfavorited %s\n", args[0])
		return nil
	},
}

var commitFlags struct {
	amountCrore float64
	tenure      int
	rate        float64
	note        string
}

var commitCmd = &cobra.Command{
	Use:   "commit [reference-id]",
	Short: "Pledge funding to a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		if commitFlags.amountCrore <= 0 {
			return fmt.Errorf("--amount must be a positive crore value")
		}

		commitment, err := newAPI().CreateCommitment(cmd.Context(), model.Commitment{
			ProjectRef:   args[0],
			UserID:       userID,
			Amount:       int64(commitFlags.amountCrore * 10_000_000),
			TenureMonths: commitFlags.tenure,
			InterestRate: commitFlags.rate,
			LenderNote:   commitFlags.note,
		})
		if err != nil {
			return err
		}
		fmt.Printf("committed %s to %s (status: %s)\n",
			format.Currency(commitment.Amount), commitment.ProjectRef, commitment.Status)
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions [reference-id]",
	Short: "Show a project's Q&A thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := newAPI().ListQuestions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("no questions yet")
			return nil
		}
		for _, q := range questions {
			fmt.Printf("Q [%s]: %s\n", q.ID, q.Question)
			if q.Answer != "" {
				fmt.Printf("A: %s\n", q.Answer)
			} else {
				fmt.Println("A: (unanswered)")
			}
			fmt.Println()
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [reference-id] [question...]",
	Short: "Ask the municipality a question about a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		q, err := newAPI().AskQuestion(cmd.Context(), model.Question{
			ProjectRef: args[0],
			UserID:     userID,
			Question:   strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("question %s posted\n", q.ID)
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes [reference-id]",
	Short: "Show my private notes on a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		notes, err := newAPI().ListNotes(cmd.Context(), userID, args[0])
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("no notes")
			return nil
		}
		for _, n := range notes {
			when := ""
			if n.CreatedAt != nil {
				when = n.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("[%s] %s\n", when, n.Body)
		}
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note [reference-id] [text...]",
	Short: "Add a private note to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := requireUser()
		if err != nil {
			return err
		}
		_, err = newAPI().CreateNote(cmd.Context(), model.Note{
			ProjectRef: args[0],
			UserID:     userID,
			Body:       strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Println("note saved")
		return nil
	},
}

var docRequestDescription string

var docsCmd = &cobra.Command{
	Use:   "docs [reference-id]",
	Short: "List document requests, or raise one with --request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := newAPI()
		if docRequestDescription != "" {
			userID, err := requireUser()
			if err != nil {
				return err
			}
			req, err := api.CreateDocumentRequest(cmd.Context(), model.DocumentRequest{
				ProjectRef:  args[0],
				RequestedBy: userID,
				Description: docRequestDescription,
			})
			if err != nil {
				return err
			}
			fmt.Printf("document request %s raised\n", req.ID)
			return nil
		}

		requests, err := api.ListDocumentRequests(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			fmt.Println("no document requests")
			return nil
		}
		for _, r := range requests {
			fmt.Printf("[%s] %s — %s\n", r.Status, r.ID, r.Description)
		}
		return nil
	},
}

var meetingFlags struct {
	subject string
	at      string
}

var meetingsCmd = &cobra.Command{
	Use:   "meetings [reference-id]",
	Short: "List meetings, or schedule one with --subject/--at",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := newAPI()
		if meetingFlags.subject != "" {
			userID, err := requireUser()
			if err != nil {
				return err
			}
			at, err := time.Parse(time.RFC3339, meetingFlags.at)
			if err != nil {
				return fmt.Errorf("invalid --at, want RFC3339: %w", err)
			}
			meeting, err := api.ScheduleMeeting(cmd.Context(), model.Meeting{
				ProjectRef:  args[0],
				RequestedBy: userID,
				Subject:     meetingFlags.subject,
				ScheduledAt: &at,
			})
			if err != nil {
				return err
			}
			fmt.Printf("meeting %s requested\n", meeting.ID)
			return nil
		}

		meetings, err := api.ListMeetings(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(meetings) == 0 {
			fmt.Println("no meetings")
			return nil
		}
		for _, m := range meetings {
			when := "unscheduled"
			if m.ScheduledAt != nil {
				when = m.ScheduledAt.Format(time.RFC3339)
			}
			fmt.Printf("[%s] %s — %s (%s)\n", m.Status, m.Subject, when, m.ID)
		}
		return nil
	},
}

var draftFile string

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage project drafts (municipality side)",
}

var draftCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := readDraftFile()
		if err != nil {
			return err
		}
		created, err := newAPI().CreateDraft(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("draft %s created\n", created.ID)
		return nil
	},
}

var draftUpdateCmd = &cobra.Command{
	Use:   "update [draft-id]",
	Short: "Update a draft from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := readDraftFile()
		if err != nil {
			return err
		}
		draft.ID = args[0]
		if _, err := newAPI().UpdateDraft(cmd.Context(), draft); err != nil {
			return err
		}
		fmt.Printf("draft %s updated\n", args[0])
		return nil
	},
}

var draftSubmitCmd = &cobra.Command{
	Use:   "submit [draft-id]",
	Short: "Submit a draft for validation and approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := newAPI().SubmitDraft(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("submitted: %s (%s)\n", project.ReferenceID, project.Status)
		return nil
	},
}

func readDraftFile() (model.ProjectDraft, error) {
	var draft model.ProjectDraft
	if draftFile == "" {
		return draft, fmt.Errorf("--file is required")
	}
	content, err := os.ReadFile(draftFile)
	if err != nil {
		return draft, fmt.Errorf("read draft file: %w", err)
	}
	if err := json.Unmarshal(content, &draft); err != nil {
		return draft, fmt.Errorf("parse draft file: %w", err)
	}
	return draft, nil
}

var downloadOut string

var downloadCmd = &cobra.Command{
	Use:   "download [file-id]",
	Short: "Download a project document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := downloadOut
		if out == "" {
			out = args[0]
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := newAPI().DownloadFile(cmd.Context(), args[0], f)
		if err != nil {
			_ = os.Remove(out)
			return err
		}
		fmt.Printf("wrote %s (%s)\n", out, format.FileSize(n))
		return nil
	},
}

func init() {
	commitCmd.Flags().Float64Var(&commitFlags.amountCrore, "amount", 0, "Commitment amount, in crore")
	commitCmd.Flags().IntVar(&commitFlags.tenure, "tenure", 0, "Tenure in months")
	commitCmd.Flags().Float64Var(&commitFlags.rate, "rate", 0, "Offered interest rate, percent")
	commitCmd.Flags().StringVar(&commitFlags.note, "note", "", "Note to the municipality")
	_ = commitCmd.MarkFlagRequired("amount")

	docsCmd.Flags().StringVar(&docRequestDescription, "request", "", "Raise a document request with this description")

	meetingsCmd.Flags().StringVar(&meetingFlags.subject, "subject", "", "Schedule a meeting with this subject")
	meetingsCmd.Flags().StringVar(&meetingFlags.at, "at", "", "Meeting time, RFC3339")

	draftCmd.AddCommand(draftCreateCmd, draftUpdateCmd, draftSubmitCmd)
	draftCreateCmd.Flags().StringVar(&draftFile, "file", "", "Draft JSON file")
	draftUpdateCmd.Flags().StringVar(&draftFile, "file", "", "Draft JSON file")
}
