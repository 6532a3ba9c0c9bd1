package models

// Connection is a directed edge from an output port of one node to an input
// port of another. Node and port references must resolve within the owning
// workflow; port direction is not enforced at this level.
type Connection struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"source_node_id" validate:"required"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id" validate:"required"`
	TargetPortID string `json:"target_port_id"`
}
