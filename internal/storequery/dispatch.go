package storequery

import (
	"fmt"

	"github.com/healthwaite/handoff/internal/metrics"
)

// HandlerType identifies the REST dispatch site a StoreQuery header arrived
// at, which gates which commands are accepted.
type HandlerType int

const (
	Service HandlerType = iota
	Bucket
	Object
)

// ErrRejected is returned for any header that fails to parse or whose
// command is invalid for the given handler type; callers should abort the
// request with an internal-error status, not fall through to normal
// authorization.
type ErrRejected struct {
	Reason string
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("storequery: rejected: %s", e.Reason)
}

// handlerDef is the static shape of a known command: how many parameters
// it takes and which handler types accept it.
type handlerDef struct {
	paramCount   int
	allowedTypes map[HandlerType]bool
}

var commands = map[string]handlerDef{
	"ping": {
		paramCount:   1,
		allowedTypes: map[HandlerType]bool{Service: true, Bucket: true, Object: true},
	},
	"objectstatus": {
		paramCount:   0,
		allowedTypes: map[HandlerType]bool{Object: true},
	},
}

// Dispatch parses raw and validates the resulting command against the
// calling handler type, returning the parsed Command ready for execution.
func Dispatch(raw string, handlerType HandlerType) (Command, error) {
	cmd, ok := Parse(raw)
	if !ok {
		metrics.StoreQueryCommandsTotal.WithLabelValues("unknown", "rejected").Inc()
		return Command{}, &ErrRejected{Reason: "header failed to parse"}
	}

	def, known := commands[cmd.Name]
	if !known {
		metrics.StoreQueryCommandsTotal.WithLabelValues(cmd.Name, "rejected").Inc()
		return Command{}, &ErrRejected{Reason: fmt.Sprintf("unknown command %q", cmd.Name)}
	}
	if !def.allowedTypes[handlerType] {
		metrics.StoreQueryCommandsTotal.WithLabelValues(cmd.Name, "rejected").Inc()
		return Command{}, &ErrRejected{Reason: fmt.Sprintf("command %q not valid in this context", cmd.Name)}
	}
	if len(cmd.Params) != def.paramCount {
		metrics.StoreQueryCommandsTotal.WithLabelValues(cmd.Name, "rejected").Inc()
		return Command{}, &ErrRejected{Reason: fmt.Sprintf("command %q takes %d parameter(s), got %d", cmd.Name, def.paramCount, len(cmd.Params))}
	}

	metrics.StoreQueryCommandsTotal.WithLabelValues(cmd.Name, "accepted").Inc()
	return cmd, nil
}
