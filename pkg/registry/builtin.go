package registry

import (
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/nodes/action"
	"github.com/flowdeck/flowdeck/pkg/nodes/condition"
	"github.com/flowdeck/flowdeck/pkg/nodes/database"
	"github.com/flowdeck/flowdeck/pkg/nodes/delay"
	"github.com/flowdeck/flowdeck/pkg/nodes/email"
	"github.com/flowdeck/flowdeck/pkg/nodes/httprequest"
	"github.com/flowdeck/flowdeck/pkg/nodes/loop"
	"github.com/flowdeck/flowdeck/pkg/nodes/script"
	"github.com/flowdeck/flowdeck/pkg/nodes/transform"
	"github.com/flowdeck/flowdeck/pkg/nodes/trigger"
)

// NewBuiltinRegistry returns a registry with all built-in node types.
func NewBuiltinRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)

	r.Register(trigger.NewFactory())
	r.Register(action.NewFactory())
	r.Register(email.NewFactory())
	r.Register(httprequest.NewFactory())
	r.Register(database.NewFactory())
	r.Register(condition.NewFactory())
	r.Register(loop.NewFactory())
	r.Register(delay.NewFactory())
	r.Register(transform.NewFactory())
	r.Register(script.NewFactory())

	return r
}
