package schedule_test

import (
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_ValidEntries(t *testing.T) {
	t.Parallel()

	source, err := schedule.NewSource([]schedule.Entry{
		{ID: "nightly", CronExpr: "0 2 * * *", WorkflowID: "wf-1"},
		{ID: "hourly", CronExpr: "@hourly", WorkflowID: "wf-2"},
	}, slog.Default())

	require.NoError(t, err)
	assert.NotNil(t, source)
}

func TestNewSource_InvalidCron(t *testing.T) {
	t.Parallel()

	_, err := schedule.NewSource([]schedule.Entry{
		{ID: "bad", CronExpr: "not a cron", WorkflowID: "wf-1"},
	}, slog.Default())

	assert.Error(t, err)
}

func TestNewSource_MissingFields(t *testing.T) {
	t.Parallel()

	_, err := schedule.NewSource([]schedule.Entry{{CronExpr: "@hourly", WorkflowID: "wf-1"}}, slog.Default())
	assert.Error(t, err)

	_, err = schedule.NewSource([]schedule.Entry{{ID: "x", CronExpr: "@hourly"}}, slog.Default())
	assert.Error(t, err)

	_, err = schedule.NewSource([]schedule.Entry{{ID: "x", WorkflowID: "wf-1"}}, slog.Default())
	assert.Error(t, err)
}
