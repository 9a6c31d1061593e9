// Package theme owns the page-wide light/dark setting: the visitor's explicit
// choice, the platform color-scheme signal, and the attribute rendered on the
// page.
package theme

// Key is the persisted preference key. Its value is "true" (dark), "false"
// (light) or absent.
const Key = "darkMode"

const (
	valueDark  = "true"
	valueLight = "false"
)

// Name values rendered into the page's data-theme attribute.
const (
	NameLight = "light"
	NameDark  = "dark"
)

// Parse decodes a persisted value. Anything other than "true" or "false"
// yields nil, the same as an absent key.
func Parse(value string) *bool {
	switch value {
	case valueDark:
		v := true
		return &v
	case valueLight:
		v := false
		return &v
	default:
		return nil
	}
}

// Format encodes an explicit choice for persistence.
func Format(dark bool) string {
	if dark {
		return valueDark
	}
	return valueLight
}

// Resolve computes the effective theme from a persisted value (ok is false
// when the key is absent) and the platform signal.
func Resolve(stored string, ok bool, systemDark bool) bool {
	if !ok {
		return systemDark
	}
	if explicit := Parse(stored); explicit != nil {
		return *explicit
	}
	return systemDark
}

// NameOf returns the data-theme attribute value for dark.
func NameOf(dark bool) string {
	if dark {
		return NameDark
	}
	return NameLight
}

// ToggleLabel is the accessible label of the theme switch while the page
// shows dark (or light) mode.
func ToggleLabel(dark bool) string {
	if dark {
		return "Przełącz na tryb jasny"
	}
	return "Przełącz na tryb ciemny"
}
