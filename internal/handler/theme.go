package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/live"
	"github.com/wentitech/wentitech/internal/metrics"
	"github.com/wentitech/wentitech/internal/session"
	"github.com/wentitech/wentitech/internal/store"
	"github.com/wentitech/wentitech/internal/theme"
)

// hintHeader is the client hint carrying the browser's prefers-color-scheme.
const hintHeader = "Sec-CH-Prefers-Color-Scheme"

// ThemeHandler resolves the initial theme for rendered pages and serves the
// toggle for browsers without script.
type ThemeHandler struct {
	sessions *scs.SessionManager
	prefs    store.PreferenceStoreIface
	hub      *live.Hub
	basePath string
	logger   *zap.Logger
}

// NewThemeHandler creates a new ThemeHandler. hub may be nil.
func NewThemeHandler(sessions *scs.SessionManager, prefs store.PreferenceStoreIface, hub *live.Hub, basePath string, logger *zap.Logger) *ThemeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeHandler{sessions: sessions, prefs: prefs, hub: hub, basePath: basePath, logger: logger}
}

// visitorStore adapts one visitor's stored preferences to theme.Store and
// tells the visitor's open tabs about every write.
type visitorStore struct {
	prefs     store.PreferenceStoreIface
	hub       *live.Hub
	visitorID string
}

func (s visitorStore) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := s.prefs.Get(ctx, s.visitorID, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s visitorStore) Save(ctx context.Context, key, value string) error {
	if err := s.prefs.Set(ctx, s.visitorID, key, value); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.PublishPreference(s.visitorID, nil, key, value, true)
	}
	return nil
}

type hintScheme struct{ dark bool }

func (h hintScheme) PrefersDark() bool { return h.dark }

type discardApplier struct{}

func (discardApplier) ApplyTheme(bool) {}

// clientHint reports the browser's color scheme if it sent the hint.
func clientHint(r *http.Request) (dark, ok bool) {
	switch strings.Trim(r.Header.Get(hintHeader), `" `) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	return false, false
}

// Resolve decides the theme a page is rendered with, from the visitor's
// stored choice and the client hint. known is false when neither is
// available and the browser must decide before paint.
func (h *ThemeHandler) Resolve(w http.ResponseWriter, r *http.Request) (dark, known bool) {
	w.Header().Set("Accept-CH", hintHeader)
	w.Header().Add("Vary", hintHeader)

	systemDark, hinted := clientHint(r)

	var stored string
	var ok bool
	if h.sessions != nil && h.prefs != nil {
		visitorID := session.EnsureVisitor(r.Context(), h.sessions)
		v, err := h.prefs.Get(r.Context(), visitorID, theme.Key)
		switch {
		case err == nil:
			stored, ok = v, theme.Parse(v) != nil
		case !errors.Is(err, store.ErrNotFound):
			h.logger.Debug("theme preference unavailable", zap.Error(err))
		}
	}
	if !ok && !hinted {
		return false, false
	}
	return theme.Resolve(stored, ok, systemDark), true
}

// Toggle handles POST /theme: flips the visitor's theme, persists it, updates
// the visitor's open tabs and redirects back.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil || h.prefs == nil {
		http.Error(w, "theme storage unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	visitorID := session.EnsureVisitor(r.Context(), h.sessions)
	systemDark, _ := clientHint(r)
	if v := r.FormValue("scheme"); v != "" {
		systemDark = v == "dark"
	}

	c := theme.NewController(
		visitorStore{prefs: h.prefs, hub: h.hub, visitorID: visitorID},
		hintScheme{dark: systemDark},
		discardApplier{},
		h.logger,
	)
	c.Initialize(r.Context())
	dark := c.Toggle(r.Context())
	metrics.ThemeTogglesTotal.WithLabelValues("fallback").Inc()
	h.logger.Debug("theme toggled", zap.String("visitor_id", visitorID), zap.String("theme", theme.NameOf(dark)))

	http.Redirect(w, r, h.backTo(r), http.StatusSeeOther)
}

// backTo returns the same-site path the toggle was submitted from.
func (h *ThemeHandler) backTo(r *http.Request) string {
	home := h.basePath + "/"
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return home
	}
	if !strings.HasPrefix(ref.Path, home) {
		return home
	}
	back := ref.Path
	if ref.Fragment != "" {
		back += "#" + ref.Fragment
	}
	return back
}
