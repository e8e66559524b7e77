package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// WithScope returns a context carrying a cloned sentry hub tagged with the given values,
// so errors reported through the *Ctx helpers are grouped by request or token.
func WithScope(ctx context.Context, tags map[string]string) context.Context {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	return sentry.SetHubOnContext(ctx, hub)
}
