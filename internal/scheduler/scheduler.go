package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"munifund/internal/portfolio"
)

type Scheduler struct {
	cron    *cron.Cron
	service *portfolio.Service
	spec    string
	log     *zap.Logger
}

func New(spec string, service *portfolio.Service, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		spec:    spec,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.log.Info("scheduled watch poll triggered")
		go s.service.Run(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
