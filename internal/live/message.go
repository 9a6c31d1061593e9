package live

import "github.com/wentitech/wentitech/internal/contact"

// EventType discriminates messages sent by the browser.
type EventType string

const (
	EventScheme   EventType = "scheme"
	EventToggle   EventType = "toggle"
	EventField    EventType = "field"
	EventSubmit   EventType = "submit"
	EventCopy     EventType = "copy"
	EventCopied   EventType = "copied"
	EventDismiss  EventType = "dismiss"
	EventNavigate EventType = "navigate"
)

// Event is the envelope for all browser-to-server messages. Only the fields
// relevant to Type are set.
type Event struct {
	Type EventType `json:"type"`

	// scheme
	PrefersDark bool `json:"prefers_dark,omitempty"`

	// field
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`

	// copy: Pointer is in page coordinates, nil for keyboard activation.
	Pointer *contact.Point `json:"pointer,omitempty"`
	Scroll  contact.Point  `json:"scroll"`

	// copied
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`

	// navigate: Top is the section's top relative to the viewport.
	Section      string  `json:"section,omitempty"`
	Top          float64 `json:"top,omitempty"`
	HeaderHeight float64 `json:"header_height,omitempty"`
}

// MessageType discriminates server-to-browser messages.
type MessageType string

const (
	MessageTheme     MessageType = "theme"
	MessageForm      MessageType = "form"
	MessageClipboard MessageType = "clipboard"
	MessageScroll    MessageType = "scroll"
)

// Message is the envelope for all server-to-browser messages.
type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

// ThemeData is the payload for theme messages.
type ThemeData struct {
	Dark  bool   `json:"dark"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ClipboardData asks the page to write Text and acknowledge with ID.
type ClipboardData struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ScrollData tells the page where to scroll for a navigation link.
type ScrollData struct {
	Section string  `json:"section"`
	Top     float64 `json:"top"`
}
