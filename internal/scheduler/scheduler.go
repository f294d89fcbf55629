// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/campusweb/internal/model"
)

// RetentionSchedule runs the event-log pruning job daily at 03:15.
const RetentionSchedule = "15 3 * * *"

// pruneTimeout bounds a single pruning run.
const pruneTimeout = time.Minute

// EventPruner deletes audit events older than a cutoff. *store.Queries satisfies it.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler handles maintenance jobs like pruning the event log.
type Scheduler struct {
	events    EventPruner
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance. retentionDays <= 0 disables pruning.
func New(events EventPruner, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		events:    events,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		cron:      cron.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retention > 0 {
		_, err := s.cron.AddFunc(RetentionSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
			defer cancel()
			if _, err := s.PruneEvents(ctx); err != nil {
				s.logger.Error("failed to prune event log", "category", model.EventCategorySystem, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling event retention: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().UTC().Add(-s.retention)
	deleted, err := s.events.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned event log", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}
