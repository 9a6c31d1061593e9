package live

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/session"
)

// Handler upgrades GET /live to a WebSocket and runs a Page on it.
type Handler struct {
	deps           PageDeps
	sessions       *scs.SessionManager
	originPatterns []string
}

// NewHandler creates the live endpoint. originPatterns lists extra hosts
// allowed to open sockets besides the request's own host.
func NewHandler(deps PageDeps, sessions *scs.SessionManager, originPatterns []string) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Handler{deps: deps, sessions: sessions, originPatterns: originPatterns}
}

// ServeHTTP handles GET /live?scheme=dark|light. The scheme parameter carries
// the browser's prefers-color-scheme at connect time.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var visitorID string
	if h.sessions != nil {
		visitorID = session.VisitorFromRequest(r, h.sessions)
	}
	prefersDark := r.URL.Query().Get("scheme") == "dark"

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.deps.Logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	page := NewPage(visitorID, prefersDark, h.deps)
	page.Run(r.Context(), conn)
}
