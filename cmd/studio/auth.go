package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-studio/components/dashboard"
	dashrouter "github.com/goliatone/go-studio/components/dashboard/gorouter"
	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/pkg/api"
	"github.com/goliatone/go-studio/pkg/auth"
)

func viewerFromIdentity(id auth.Identity) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{UserID: id.UserID, Name: id.Name, Locale: id.Locale}
	if role, err := studio.ParseRole(id.Role); err == nil {
		viewer.Roles = []string{string(role)}
	}
	return viewer
}

// viewerResolver reads the signed token from the Authorization header or
// the auth cookie. Requests without a valid token resolve to an anonymous
// viewer, which sees only widgets open to every role.
func viewerResolver(signer *auth.Signer, cookieName string) dashrouter.ViewerResolver {
	return func(ctx router.Context) dashboard.ViewerContext {
		token := auth.TokenFrom(ctx.Header("Authorization"), cookieValue(ctx.Header("Cookie"), cookieName))
		if claims, err := signer.Parse(token); err == nil {
			viewer := viewerFromIdentity(claims.Identity())
			if viewer.Locale == "" {
				viewer.Locale = firstLanguage(ctx.Header("Accept-Language"))
			}
			return viewer
		}
		return dashboard.ViewerContext{Locale: firstLanguage(ctx.Header("Accept-Language"))}
	}
}

func cookieValue(header, name string) string {
	if header == "" || name == "" {
		return ""
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func firstLanguage(header string) string {
	tag, _, _ := strings.Cut(header, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}

type identityKey struct{}

// authenticate rejects requests without a valid token and forwards the
// viewer's token to backend calls made while serving the request.
func authenticate(signer *auth.Signer, cookieName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := signer.FromRequest(r, cookieName)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			msg := "authentication required"
			if errors.Is(err, auth.ErrInvalidToken) {
				msg = "invalid token"
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
			return
		}
		cookie := ""
		if c, err := r.Cookie(cookieName); err == nil {
			cookie = c.Value
		}
		ctx := api.WithToken(r.Context(), auth.TokenFrom(r.Header.Get("Authorization"), cookie))
		ctx = context.WithValue(ctx, identityKey{}, claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestActor is the studio httpapi ActorFunc for authenticated requests.
func requestActor(r *http.Request) studio.Actor {
	id, _ := r.Context().Value(identityKey{}).(auth.Identity)
	role, _ := studio.ParseRole(id.Role)
	return studio.Actor{ID: id.UserID, Role: role}
}

// requestViewer is the dashboard httpapi ViewerFunc for authenticated requests.
func requestViewer(r *http.Request) dashboard.ViewerContext {
	id, _ := r.Context().Value(identityKey{}).(auth.Identity)
	viewer := viewerFromIdentity(id)
	if viewer.Locale == "" {
		viewer.Locale = firstLanguage(r.Header.Get("Accept-Language"))
	}
	return viewer
}
