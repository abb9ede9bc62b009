package observability

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// AuditInput describes one administrative action for the audit log.
type AuditInput struct {
	EventName  string
	ActorTeam  uint
	TargetType string
	TargetID   string
	Action     string
	Outcome    string
	Reason     string
}

// EmitAudit writes a structured audit record through the ambient logger.
// Extra key/value pairs are appended verbatim.
func EmitAudit(ctx context.Context, logger *slog.Logger, in AuditInput, extra ...any) {
	if logger == nil {
		return
	}
	attrs := []any{
		"audit", true,
		"event_id", uuid.NewString(),
		"event", in.EventName,
		"actor_team", strconv.FormatUint(uint64(in.ActorTeam), 10),
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
	}
	attrs = append(attrs, extra...)
	logger.InfoContext(ctx, "audit_event", attrs...)
}
