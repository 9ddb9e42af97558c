package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
)

type actorKey struct{}

// WithActor returns ctx carrying the id of the member issuing commands.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting member id, or "" when none was set.
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// activityLog writes audit entries. A failed write never fails the command
// that triggered it.
type activityLog struct {
	store ActivityStore
	log   *slog.Logger
}

func (a *activityLog) record(ctx context.Context, action, entityType, entityID string, details any) {
	if a == nil || a.store == nil {
		return
	}

	entry := &model.Activity{
		ActorID:    ActorFrom(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err == nil {
			entry.Details = string(b)
		}
	}

	if err := a.store.Record(ctx, entry); err != nil {
		a.log.WarnContext(ctx, "activity log write failed",
			slog.String("action", action),
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.Any("error", err),
		)
	}
}

// ActivityService exposes the audit log.
type ActivityService struct {
	store ActivityStore
}

// Recent returns up to limit entries, newest first. Limits outside 1..500
// fall back to 50.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.store.Recent(ctx, limit)
}
