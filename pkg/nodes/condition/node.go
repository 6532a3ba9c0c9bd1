// Package condition provides the branching node handler: it evaluates
// configured comparisons against the node input and execution context.
package condition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Comparison is one field/operator/value check.
type Comparison struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type Config struct {
	Conditions []Comparison `json:"conditions"`
	Mode       string       `json:"mode"` // "all" or "any"
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{Mode: "all"}

	if mode, ok := config["mode"].(string); ok && mode != "" {
		if mode != "all" && mode != "any" {
			return nil, fmt.Errorf("invalid mode %q, expected 'all' or 'any'", mode)
		}

		cfg.Mode = mode
	}

	rawConditions, _ := config["conditions"].([]any)
	for _, raw := range rawConditions {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid condition entry %v", raw)
		}

		comparison := Comparison{Operator: "equals"}
		if field, ok := entry["field"].(string); ok {
			comparison.Field = field
		}

		if operator, ok := entry["operator"].(string); ok && operator != "" {
			comparison.Operator = operator
		}

		comparison.Value = entry["value"]

		if comparison.Field == "" {
			return nil, fmt.Errorf("condition entry missing 'field'")
		}

		cfg.Conditions = append(cfg.Conditions, comparison)
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, execCtx models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	met := n.evaluate(execCtx, input)

	branch := BranchFalse
	if met {
		branch = BranchTrue
	}

	logger.Info("Condition evaluated", "node_id", n.id, "condition_met", met, "branch", branch)

	return &protocol.Result{
		Output: map[string]any{
			"condition_met": met,
			"branch":        branch,
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "condition evaluated", map[string]any{
				"condition_met": met,
				"branch":        branch,
			}),
		},
	}, nil
}

// evaluate resolves each comparison field against the input first, then the
// execution context's variables and trigger data.
func (n *Node) evaluate(execCtx models.ExecutionContext, input map[string]any) bool {
	if len(n.config.Conditions) == 0 {
		return true
	}

	anyMet := false

	for _, comparison := range n.config.Conditions {
		actual := resolveField(comparison.Field, input, execCtx)
		met := compare(actual, comparison.Operator, comparison.Value)

		if met {
			anyMet = true
		} else if n.config.Mode == "all" {
			return false
		}
	}

	if n.config.Mode == "any" {
		return anyMet
	}

	return true
}

func resolveField(field string, input map[string]any, execCtx models.ExecutionContext) any {
	if value, ok := input[field]; ok {
		return value
	}

	if value, ok := execCtx.Variables[field]; ok {
		return value
	}

	if value, ok := execCtx.TriggerData[field]; ok {
		return value
	}

	return nil
}

func compare(actual any, operator string, expected any) bool {
	switch operator {
	case "equals", "":
		return fmt.Sprint(actual) == fmt.Sprint(expected)
	case "not_equals":
		return fmt.Sprint(actual) != fmt.Sprint(expected)
	case "contains":
		return strings.Contains(fmt.Sprint(actual), fmt.Sprint(expected))
	case "greater_than":
		a, aok := toFloat(actual)
		b, bok := toFloat(expected)

		return aok && bok && a > b
	case "less_than":
		a, aok := toFloat(actual)
		b, bok := toFloat(expected)

		return aok && bok && a < b
	case "exists":
		return actual != nil
	default:
		return false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}
