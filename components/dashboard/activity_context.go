package dashboard

import "context"

// ActivityContext carries the actor, user and tenant ids stamped on
// dashboard activity events.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type activityContextKey struct{}

// ContextWithActivity stores ids on ctx for mutations that do not carry them
// in their request, such as remove and reorder.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

// ContextWithViewer stamps the viewer as both actor and user.
func ContextWithViewer(ctx context.Context, viewer ViewerContext) context.Context {
	return ContextWithActivity(ctx, ActivityContext{ActorID: viewer.UserID, UserID: viewer.UserID})
}

func activityContextFrom(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	if meta, ok := ctx.Value(activityContextKey{}).(ActivityContext); ok {
		return meta
	}
	return ActivityContext{}
}

func activityIDs(actorID, userID, tenantID string) ActivityContext {
	return ActivityContext{ActorID: actorID, UserID: userID, TenantID: tenantID}
}

// merge fills blank ids from fallback.
func (a ActivityContext) merge(fallback ActivityContext) ActivityContext {
	if a.ActorID == "" {
		a.ActorID = fallback.ActorID
	}
	if a.UserID == "" {
		a.UserID = fallback.UserID
	}
	if a.TenantID == "" {
		a.TenantID = fallback.TenantID
	}
	return a
}
