package webapp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	appKey ctxKey = iota
	matchInfoKey
)

// Route describes what a request was matched against.
type Route struct {
	Pattern string
	// System routes are not registered by users; they stand in for requests
	// that were never dispatched through the router.
	System bool
	Status int
}

// SystemRoute returns a route that answers with status.
func SystemRoute(status int) Route { return Route{System: true, Status: status} }

// MatchInfo is the routing result attached to a request.
type MatchInfo struct {
	Params     map[string]string
	Route      Route
	Apps       []*Application
	CurrentApp *Application
}

func ContextWithApp(ctx context.Context, app *Application) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// AppFromContext returns the root application stored in ctx, or nil.
func AppFromContext(ctx context.Context) *Application {
	app, _ := ctx.Value(appKey).(*Application)
	return app
}

// WithApp returns a shallow copy of r bound to app.
func WithApp(r *http.Request, app *Application) *http.Request {
	return r.WithContext(ContextWithApp(r.Context(), app))
}

// AppFromRequest returns the application r is bound to, or nil.
func AppFromRequest(r *http.Request) *Application { return AppFromContext(r.Context()) }

func WithMatchInfo(r *http.Request, mi MatchInfo) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), matchInfoKey, mi))
}

func MatchInfoFromRequest(r *http.Request) (MatchInfo, bool) {
	mi, ok := r.Context().Value(matchInfoKey).(MatchInfo)
	return mi, ok
}

// CurrentApp returns the innermost application handling r, falling back to
// the root application.
func CurrentApp(r *http.Request) *Application {
	if mi, ok := MatchInfoFromRequest(r); ok && mi.CurrentApp != nil {
		return mi.CurrentApp
	}
	return AppFromRequest(r)
}

// Param returns a path parameter from the match info or, failing that, from
// chi's routing context.
func Param(r *http.Request, name string) string {
	if mi, ok := MatchInfoFromRequest(r); ok {
		if v, ok := mi.Params[name]; ok {
			return v
		}
	}
	return chi.URLParam(r, name)
}

func enterApp(r *http.Request, app *Application) *http.Request {
	mi, _ := MatchInfoFromRequest(r)
	apps := make([]*Application, 0, len(mi.Apps)+1)
	apps = append(apps, mi.Apps...)
	apps = append(apps, app)
	mi.Apps = apps
	mi.CurrentApp = app
	ctx := r.Context()
	if AppFromContext(ctx) == nil {
		ctx = ContextWithApp(ctx, app)
	}
	return r.WithContext(context.WithValue(ctx, matchInfoKey, mi))
}
