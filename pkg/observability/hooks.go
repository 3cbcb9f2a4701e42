package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/murmur/pkg/domain"
)

// Combine fans each callback out to every hook set, in order. Nil callbacks are skipped.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(ctx context.Context, ev domain.Event) {
			for _, h := range hooks {
				if h.OnEvent != nil {
					h.OnEvent(ctx, ev)
				}
			}
		},
		OnChoicePicked: func(ctx context.Context, ev domain.ChoiceEvent) {
			for _, h := range hooks {
				if h.OnChoicePicked != nil {
					h.OnChoicePicked(ctx, ev)
				}
			}
		},
	}
}

// LoggingHooks logs every event at Debug and every accepted choice at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(ctx context.Context, ev domain.Event) {
			logger.DebugContext(ctx, "event",
				"type", ev.Type,
				"group", ev.Group,
				"position", ev.Position,
			)
		},
		OnChoicePicked: func(ctx context.Context, ev domain.ChoiceEvent) {
			logger.InfoContext(ctx, "choice_picked",
				"group", ev.Group,
				"position", ev.Position,
				"contradiction", ev.Global.Contradiction,
				"suspicion", ev.Global.Suspicion,
			)
		},
	}
}
