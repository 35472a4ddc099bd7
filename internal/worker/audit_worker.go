package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/cache"
	"github.com/newsdesk/newsroom/internal/events"
)

// StartAuditWorker logs every domain event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")
	events.SubscribeAll(dispatcher, events.AllEvents, func(_ context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("resource", event.Resource),
			zap.String("resource_id", event.ResourceID),
			zap.String("actor_id", event.Actor.UserID),
			zap.String("actor_role", string(event.Actor.Role)),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	})
}

// StartFrontPageInvalidator drops the cached front page whenever articles,
// comments or author names change.
func StartFrontPageInvalidator(dispatcher events.Dispatcher, frontPage cache.FrontPage, logger *zap.Logger) {
	if dispatcher == nil || frontPage == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	events.SubscribeAll(dispatcher, events.ArticleEvents, func(ctx context.Context, event events.Event) error {
		if err := frontPage.Invalidate(ctx); err != nil {
			logger.Warn("front page invalidation failed",
				zap.String("event", string(event.Type)),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
}
