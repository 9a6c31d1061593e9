package handler

import "net/http"

// LegalHandler serves the terms and privacy policy pages.
type LegalHandler struct {
	theme    *ThemeHandler
	basePath string
}

// NewLegalHandler creates a new LegalHandler.
func NewLegalHandler(th *ThemeHandler, basePath string) *LegalHandler {
	return &LegalHandler{theme: th, basePath: basePath}
}

// Terms serves GET /regulamin/.
func (h *LegalHandler) Terms(w http.ResponseWriter, r *http.Request) {
	dark, known := h.theme.Resolve(w, r)
	render(w, "regulamin.html", newBasePage(h.basePath, dark, known))
}

// Privacy serves GET /polityka-prywatnosci/.
func (h *LegalHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	dark, known := h.theme.Resolve(w, r)
	render(w, "polityka-prywatnosci.html", newBasePage(h.basePath, dark, known))
}
