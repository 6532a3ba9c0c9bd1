// Package template provides templating for dynamic node configuration and
// the transform node, rendering Go templates over the execution context.
package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// RenderWithContext renders input with the execution context's bindings plus
// the current node input exposed to the template.
func RenderWithContext(input string, execCtx *models.ExecutionContext, nodeInput map[string]any) (any, error) {
	data := map[string]any{
		"input":        nodeInput,
		"variables":    execCtx.Variables,
		"vars":         execCtx.Variables,
		"trigger_data": execCtx.TriggerData,
		"node_results": execCtx.NodeResults,
		"execution": map[string]any{
			"id":          execCtx.ExecutionID,
			"workflow_id": execCtx.WorkflowID,
		},
	}

	return Render(input, data)
}

// Render executes templateStr against data. Results that look like JSON,
// numbers or booleans are decoded into their natural Go types.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("transform").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any
		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}

		return nil, fmt.Errorf("failed to parse json result of '%s'", templateStr)
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}
