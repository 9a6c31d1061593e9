package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollTarget(t *testing.T) {
	tests := []struct {
		name                 string
		top, scrollY, header float64
		want                 float64
	}{
		{name: "below the fold", top: 900, scrollY: 0, header: 64, want: 816},
		{name: "already scrolled", top: 200, scrollY: 1000, header: 64, want: 1116},
		{name: "unmeasured header", top: 500, scrollY: 0, header: 0, want: 400},
		{name: "clamped at top", top: 10, scrollY: 0, header: 64, want: 0},
		{name: "element above viewport", top: -300, scrollY: 200, header: 64, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrollTarget(tt.top, tt.scrollY, tt.header))
		})
	}
}

func TestIsSection(t *testing.T) {
	assert.True(t, IsSection("contact"))
	assert.False(t, IsSection("admin"))
}
