// Package session identifies returning visitors. Each browser gets a random
// visitor ID kept in an scs session stored in the application database; the
// ID scopes persisted preferences and groups the browser's open tabs.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const VisitorKey = "visitor_id"

// NewManager creates an SCS session manager backed by the application DB.
// The driver parameter selects the appropriate store: "mysql", "postgres", or
// "sqlite3" (default).
func NewManager(db *sqlx.DB, driver string, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	default: // sqlite3
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "wentitech_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// EnsureVisitor returns the visitor ID of the session loaded into ctx,
// creating one on first visit. ctx must come from a request that passed
// through sm.LoadAndSave.
func EnsureVisitor(ctx context.Context, sm *scs.SessionManager) string {
	if id := sm.GetString(ctx, VisitorKey); id != "" {
		return id
	}
	id := uuid.NewString()
	sm.Put(ctx, VisitorKey, id)
	return id
}

// VisitorFromRequest loads the session named by the request cookie without
// wrapping the response writer, for handlers that hijack the connection.
// It returns "" when the request carries no usable session.
func VisitorFromRequest(r *http.Request, sm *scs.SessionManager) string {
	c, err := r.Cookie(sm.Cookie.Name)
	if err != nil || c.Value == "" {
		return ""
	}
	ctx, err := sm.Load(r.Context(), c.Value)
	if err != nil {
		return ""
	}
	return sm.GetString(ctx, VisitorKey)
}
