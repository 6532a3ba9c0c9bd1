package models

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// Port is a connection point on a node. A port always belongs to exactly one
// node; NodeID must resolve to a node present in the same workflow.
type Port struct {
	ID        string        `json:"id"      validate:"required"`
	NodeID    string        `json:"node_id" validate:"required"`
	Name      string        `json:"name"`
	Direction PortDirection `json:"direction" validate:"required,oneof=input output"`
	Required  bool          `json:"required,omitempty"`
}
