// Package service assembles the dashboard funnel and period statistics.
package service

import (
	"context"
	"time"

	"leadflow_backend/internal/stats/domain"
	"leadflow_backend/internal/stats/repository"
	"leadflow_backend/internal/stats/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo     repository.Reader
	clock    clock.Clock
	location *time.Location
	log      *logger.Logger
}

func New(repo repository.Reader, clk clock.Clock, location *time.Location, log *logger.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, clock: clk, location: location, log: log}
}

// GetFunnel returns the share of all leads in each funnel stage.
func (s *Service) GetFunnel(ctx context.Context, id identity.Identity) (transport.FunnelResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.FunnelResponse{}, err
	}
	counts, err := s.repo.CountLeadsByStatus(ctx)
	if err != nil {
		return transport.FunnelResponse{}, err
	}
	return toFunnelResponse(domain.BuildFunnel(counts)), nil
}

// GetStats compares the period ending now with the one before it. The
// queries run concurrently.
func (s *Service) GetStats(ctx context.Context, id identity.Identity, req transport.StatsRequest) (transport.StatsResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.StatsResponse{}, err
	}

	period := domain.Period(req.Period)
	if period == "" {
		period = domain.PeriodWeek
	}
	current, previous, err := domain.Windows(period, s.clock.Now())
	if err != nil {
		return transport.StatsResponse{}, apperr.Validation(err.Error())
	}

	var (
		counts              map[string]int
		pipeline            float64
		newCur, newPrev     int
		convCur, convPrev   int
		interCur, interPrev int
		wonCur, wonPrev     float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() (err error) {
		counts, err = s.repo.CountLeadsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		pipeline, err = s.repo.PipelineValue(gctx)
		return err
	})
	countPair(gctx, g, s.repo.CountLeadsCreated, current, previous, &newCur, &newPrev)
	countPair(gctx, g, s.repo.CountLeadsConverted, current, previous, &convCur, &convPrev)
	countPair(gctx, g, s.repo.CountInteractions, current, previous, &interCur, &interPrev)
	g.Go(func() (err error) {
		from, to := current.Dates(s.location)
		wonCur, err = s.repo.SumWonDealValue(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		from, to := previous.Dates(s.location)
		wonPrev, err = s.repo.SumWonDealValue(gctx, from, to)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithContext(ctx).DatabaseError("get_stats", err)
		return transport.StatsResponse{}, err
	}

	return transport.StatsResponse{
		Period:         string(period),
		NewLeads:       metric(float64(newCur), float64(newPrev)),
		Conversions:    metric(float64(convCur), float64(convPrev)),
		WonDealValue:   metric(wonCur, wonPrev),
		Interactions:   metric(float64(interCur), float64(interPrev)),
		PipelineValue:  pipeline,
		ConversionRate: domain.BuildFunnel(counts).ConversionRate,
	}, nil
}

type countFunc func(ctx context.Context, from, to time.Time) (int, error)

func countPair(ctx context.Context, g *errgroup.Group, fn countFunc, current, previous domain.Window, cur, prev *int) {
	g.Go(func() (err error) {
		*cur, err = fn(ctx, current.From, current.To)
		return err
	})
	g.Go(func() (err error) {
		*prev, err = fn(ctx, previous.From, previous.To)
		return err
	})
}

func metric(current, previous float64) transport.Metric {
	return transport.Metric{Current: current, Previous: previous, Trend: domain.Trend(current, previous)}
}

func toFunnelResponse(f domain.Funnel) transport.FunnelResponse {
	stages := make([]transport.FunnelStage, 0, len(f.Stages))
	for _, stage := range f.Stages {
		stages = append(stages, transport.FunnelStage{Status: stage.Status, Count: stage.Count, Percentage: stage.Percentage})
	}
	return transport.FunnelResponse{TotalLeads: f.Total, Stages: stages, ConversionRate: f.ConversionRate}
}
