// Package schedule starts workflow executions on cron expressions read from
// workflow triggers of type "schedule".
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Callback runs a workflow with trigger data when a schedule fires.
type Callback func(ctx context.Context, workflowID string, triggerData map[string]any) error

// Entry is one cron-driven workflow start.
type Entry struct {
	ID         string
	CronExpr   string
	WorkflowID string
}

// Source owns the cron runner for all schedule entries.
type Source struct {
	entries  []Entry
	cron     *cron.Cron
	callback Callback
	logger   *slog.Logger
}

// NewSource creates a schedule source. Entries are validated eagerly so a bad
// cron expression fails at startup, not at fire time.
func NewSource(entries []Entry, logger *slog.Logger) (*Source, error) {
	for _, entry := range entries {
		if err := validate(entry); err != nil {
			return nil, err
		}
	}

	return &Source{
		entries: entries,
		logger:  logger.With("module", "schedule"),
	}, nil
}

func validate(entry Entry) error {
	if entry.ID == "" {
		return errors.New("schedule entry ID is required")
	}

	if entry.WorkflowID == "" {
		return fmt.Errorf("schedule entry %s: workflow id is required", entry.ID)
	}

	if entry.CronExpr == "" {
		return fmt.Errorf("schedule entry %s: cron expression is required", entry.ID)
	}

	if _, err := cron.ParseStandard(entry.CronExpr); err != nil {
		return fmt.Errorf("schedule entry %s: invalid cron expression: %w", entry.ID, err)
	}

	return nil
}

// Start registers all entries and begins firing. Overlapping runs of the same
// entry are skipped.
func (s *Source) Start(ctx context.Context, callback Callback) error {
	s.callback = callback

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	for _, entry := range s.entries {
		entry := entry

		id, err := s.cron.AddFunc(entry.CronExpr, func() { s.fire(ctx, entry) })
		if err != nil {
			return fmt.Errorf("failed to add cron job for entry %s: %w", entry.ID, err)
		}

		s.logger.Info("Registered schedule", "entry_id", entry.ID, "cron_id", id,
			"cron", entry.CronExpr, "workflow_id", entry.WorkflowID)
	}

	s.cron.Start()

	return nil
}

func (s *Source) fire(ctx context.Context, entry Entry) {
	s.logger.Info("Schedule fired", "entry_id", entry.ID, "workflow_id", entry.WorkflowID)

	triggerData := map[string]any{
		"schedule_id": entry.ID,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}

	err := s.callback(ctx, entry.WorkflowID, triggerData)
	if err != nil {
		s.logger.Error("Error executing workflow for schedule",
			"entry_id", entry.ID, "workflow_id", entry.WorkflowID, "error", err)
	}
}

// Stop halts the cron runner; in-flight runs finish on their own.
func (s *Source) Stop(_ context.Context) error {
	s.logger.Info("Stopping schedule source")

	if s.cron != nil {
		s.cron.Stop()
	}

	return nil
}
