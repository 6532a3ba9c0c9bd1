package models

import "maps"

// ExecutionContext carries the data visible to node handlers during a run:
// the trigger payload, the workflow's variable bindings and the outputs of
// already-executed nodes keyed by node id.
type ExecutionContext struct {
	ExecutionID string                    `json:"execution_id"`
	WorkflowID  string                    `json:"workflow_id"`
	TriggerData map[string]any            `json:"trigger_data,omitempty"`
	Variables   map[string]any            `json:"variables,omitempty"`
	NodeResults map[string]map[string]any `json:"node_results,omitempty"`
}

// Clone returns a deep copy of the context.
func (ec ExecutionContext) Clone() ExecutionContext {
	clone := ec
	clone.TriggerData = maps.Clone(ec.TriggerData)
	clone.Variables = maps.Clone(ec.Variables)

	if ec.NodeResults != nil {
		clone.NodeResults = make(map[string]map[string]any, len(ec.NodeResults))
		for nodeID, output := range ec.NodeResults {
			clone.NodeResults[nodeID] = maps.Clone(output)
		}
	}

	return clone
}
