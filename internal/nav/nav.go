// Package nav computes scroll positions for the in-page navigation links.
package nav

// Sections are the anchors the header navigation links to, in menu order.
var Sections = []string{"home", "services", "about", "contact"}

const (
	defaultHeaderHeight = 80
	gap                 = 20
)

// ScrollTarget returns the document offset to scroll to so that an element
// whose top edge is elementTop pixels below the viewport lands just under the
// sticky header. A headerHeight of zero or less means the header was not
// measured.
func ScrollTarget(elementTop, scrollY, headerHeight float64) float64 {
	if headerHeight <= 0 {
		headerHeight = defaultHeaderHeight
	}
	return max(0, elementTop+scrollY-headerHeight-gap)
}

// IsSection reports whether id names a navigable section.
func IsSection(id string) bool {
	for _, s := range Sections {
		if s == id {
			return true
		}
	}
	return false
}
