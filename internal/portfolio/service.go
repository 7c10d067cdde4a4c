// Package portfolio re-fetches the lender's favorited projects on a
// schedule, diffs funding against the last stored snapshot, and raises
// alerts when commitments moved.
package portfolio

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"munifund/internal/format"
	"munifund/internal/model"
	"munifund/internal/repositories"
)

const (
	pageSize       = 100
	upsertParallel = 4
)

type Service struct {
	lister   ProjectLister
	repo     repositories.SnapshotRepository
	notifier Notifier
	userID   string
	log      *zap.Logger

	mu      sync.Mutex
	running bool
}

func NewService(lister ProjectLister, repo repositories.SnapshotRepository, notifier Notifier, userID string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{lister: lister, repo: repo, notifier: notifier, userID: userID, log: log}
}

// Run performs one watch poll. Overlapping runs are skipped rather than
// queued, matching the scheduler's fire-and-forget trigger.
func (s *Service) Run(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Info("watch already running; skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.poll(ctx); err != nil {
		s.log.Error("watch poll failed", zap.Error(err))
	}
}

func (s *Service) poll(ctx context.Context) error {
	s.log.Info("watch poll started", zap.String("user_id", s.userID))

	projects, err := s.fetchFavorites(ctx)
	if err != nil {
		return err
	}

	stats := &pollStats{}
	var statsMu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(upsertParallel)

	for _, project := range projects {
		p := project
		group.Go(func() error {
			alert, moved, err := s.observe(gctx, p)

			statsMu.Lock()
			defer statsMu.Unlock()
			stats.fetched++
			switch {
			case err != nil:
				stats.errors++
				s.log.Warn("snapshot upsert failed", zap.String("project", p.ReferenceID), zap.Error(err))
			case alert.FirstSeen:
				stats.firstSeen++
			case moved:
				stats.moved++
				s.notifier.FundingAlert(alert)
			default:
				stats.unchanged++
			}
			return nil
		})
	}
	_ = group.Wait()

	s.log.Info("watch poll summary",
		zap.Int("fetched", stats.fetched),
		zap.Int("first_seen", stats.firstSeen),
		zap.Int("moved", stats.moved),
		zap.Int("unchanged", stats.unchanged),
		zap.Int("errors", stats.errors),
	)
	return nil
}

// fetchFavorites pages through the favorited listings until a short page.
func (s *Service) fetchFavorites(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	for skip := 0; ; skip += pageSize {
		params := map[string]string{
			"user_id":        s.userID,
			"favorites_only": "true",
			"skip":           strconv.Itoa(skip),
			"limit":          strconv.Itoa(pageSize),
		}
		page, err := s.lister.ListProjects(ctx, params)
		if err != nil {
			return nil, err
		}
		projects = append(projects, page...)
		if len(page) < pageSize {
			return projects, nil
		}
	}
}

func (s *Service) observe(ctx context.Context, p model.Project) (Alert, bool, error) {
	progress := format.Progress(p.CommittedAmount, p.CommitmentGap)
	previous, found, err := s.repo.Upsert(ctx, model.FundingSnapshot{
		ProjectRef:      p.ReferenceID,
		Title:           p.Title,
		CommittedAmount: p.CommittedAmount,
		CommitmentGap:   p.CommitmentGap,
		Progress:        progress,
		ObservedAt:      time.Now().UTC(),
	})
	if err != nil {
		return Alert{}, false, err
	}

	alert := Alert{
		ProjectRef:    p.ReferenceID,
		Title:         p.Title,
		CommitmentGap: p.CommitmentGap,
		PrevCommitted: previous.CommittedAmount,
		NewCommitted:  p.CommittedAmount,
		PrevProgress:  previous.Progress,
		NewProgress:   progress,
		FirstSeen:     !found,
	}
	moved := found && previous.CommittedAmount != p.CommittedAmount
	return alert, moved, nil
}

type pollStats struct {
	fetched   int
	firstSeen int
	moved     int
	unchanged int
	errors    int
}
