package handler

import (
	"net/http"
)

// Detail is one copyable row of the company details card.
type Detail struct {
	Label string
	Value string
}

// Company holds the details shown on the back of the contact card.
var Company = []Detail{
	{Label: "Nazwa", Value: "WENTITECH Sp. z o. o."},
	{Label: "Adres", Value: "ul. Abrahama 46B/8, Gdynia"},
	{Label: "Kod pocztowy", Value: "81-395"},
	{Label: "Telefon", Value: "+48 601 514 423"},
	{Label: "NIP", Value: "5862400243"},
	{Label: "REGON", Value: "527207919"},
	{Label: "Godziny pracy", Value: "09:00 - 17:00"},
}

// Service is one tile of the services section.
type Service struct {
	Title       string
	Description string
}

var services = []Service{
	{Title: "Wentylacja mechaniczna", Description: "Projekt i montaż instalacji wentylacyjnych z odzyskiem ciepła dla domów i obiektów komercyjnych."},
	{Title: "Klimatyzacja", Description: "Dobór, montaż i serwis klimatyzatorów ściennych, kasetonowych i kanałowych."},
	{Title: "Pompy ciepła", Description: "Kompleksowe instalacje pomp ciepła powietrze-woda wraz z uruchomieniem."},
	{Title: "Serwis i przeglądy", Description: "Okresowe przeglądy, czyszczenie kanałów i wymiana filtrów."},
}

type landingPage struct {
	BasePage
	Services []Service
	Company  []Detail
}

// LandingHandler serves the public landing page.
type LandingHandler struct {
	theme    *ThemeHandler
	basePath string
}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler(th *ThemeHandler, basePath string) *LandingHandler {
	return &LandingHandler{theme: th, basePath: basePath}
}

// Index serves GET /.
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	dark, known := h.theme.Resolve(w, r)
	bp := newBasePage(h.basePath, dark, known)
	bp.Section = "home"
	render(w, "landing.html", landingPage{BasePage: bp, Services: services, Company: Company})
}
