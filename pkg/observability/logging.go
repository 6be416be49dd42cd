package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cadmark/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRebuild: func(ctx context.Context, e *domain.RebuildEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "rebuild failed",
					"handle", e.Handle,
					"type", e.TypeName,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "rebuild",
				"handle", e.Handle,
				"type", e.TypeName,
				"primitives", e.Primitives,
				"duration", e.Duration,
			)
		},
		OnFlush: func(ctx context.Context, e *domain.FlushEvent) {
			logger.DebugContext(ctx, "flush",
				"handle", e.Handle,
				"definition", e.Definition,
				"copied", e.Copied,
				"err", e.Err,
			)
		},
		OnGripEdit: func(ctx context.Context, e *domain.GripEvent) {
			logger.DebugContext(ctx, "grip_edit",
				"handle", e.Handle,
				"kind", e.Kind,
				"committed", e.Committed,
			)
		},
		OnSessionEnd: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session_end",
				"handle", e.Handle,
				"type", e.TypeName,
				"committed", e.Committed,
				"steps", e.Steps,
			)
		},
	}
}
