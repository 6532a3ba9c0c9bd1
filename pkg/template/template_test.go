package template_test

import (
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JSONResult(t *testing.T) {
	t.Parallel()

	result, err := template.Render(`{"name": "{{.name}}"}`, map[string]any{"name": "flowdeck"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "flowdeck"}, result)
}

func TestRender_ScalarCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		data     map[string]any
		want     any
	}{
		{"number", "{{.count}}", map[string]any{"count": 42}, float64(42)},
		{"boolean", "{{.ok}}", map[string]any{"ok": true}, true},
		{"string", "hello {{.who}}", map[string]any{"who": "world"}, "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := template.Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestRender_ParseError(t *testing.T) {
	t.Parallel()

	_, err := template.Render("{{.unclosed", nil)

	assert.Error(t, err)
}

func TestRenderWithContext(t *testing.T) {
	t.Parallel()

	execCtx := &models.ExecutionContext{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		Variables:   map[string]any{"region": "eu"},
		TriggerData: map[string]any{"order_id": "o-7"},
	}

	result, err := template.RenderWithContext(
		`{"region": "{{.variables.region}}", "order": "{{.trigger_data.order_id}}", "qty": "{{.input.qty}}"}`,
		execCtx,
		map[string]any{"qty": 3},
	)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"region": "eu", "order": "o-7", "qty": "3"}, result)
}
