package theme

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store is the persistent key-value store holding the explicit choice.
type Store interface {
	// Load returns the stored value; ok is false when the key is absent.
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// SchemeSource reports the platform's current color-scheme preference.
type SchemeSource interface {
	PrefersDark() bool
}

// Applier sets the page's visual theme.
type Applier interface {
	ApplyTheme(dark bool)
}

// Controller reconciles the explicit choice, the system signal and the
// rendered theme for one page. The applier always receives Effective()
// after a mutation. Storage failures are logged and the controller keeps
// going in memory.
type Controller struct {
	store   Store
	scheme  SchemeSource
	applier Applier
	logger  *zap.Logger

	mu         sync.Mutex
	explicit   *bool
	systemDark bool

	// applyMu orders ApplyTheme calls; each reads Effective() while held,
	// so the last value applied is always the current one.
	applyMu sync.Mutex
}

// NewController creates a Controller. Call Initialize before use.
func NewController(store Store, scheme SchemeSource, applier Applier, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, scheme: scheme, applier: applier, logger: logger}
}

// Initialize loads the persisted choice and the current system signal and
// applies the result.
func (c *Controller) Initialize(ctx context.Context) {
	var explicit *bool
	value, ok, err := c.store.Load(ctx, Key)
	switch {
	case err != nil:
		c.logger.Debug("theme preference unavailable", zap.Error(err))
	case ok:
		explicit = Parse(value)
		if explicit == nil {
			c.logger.Debug("ignoring malformed theme preference", zap.String("value", value))
		}
	}
	systemDark := c.scheme.PrefersDark()

	c.mu.Lock()
	c.explicit = explicit
	c.systemDark = systemDark
	c.mu.Unlock()

	c.apply()
}

// Toggle flips the effective theme and records it as the explicit choice.
// It returns the effective value applied afterwards, which differs from
// the toggled one only if another page wrote in between.
func (c *Controller) Toggle(ctx context.Context) bool {
	c.mu.Lock()
	dark := !c.effectiveLocked()
	c.explicit = &dark
	c.mu.Unlock()

	if err := c.store.Save(ctx, Key, Format(dark)); err != nil {
		c.logger.Debug("theme preference not persisted", zap.Error(err))
	}
	return c.apply()
}

// OnSystemPreferenceChange records a new platform signal. The page only
// changes when no explicit choice exists.
func (c *Controller) OnSystemPreferenceChange(prefersDark bool) {
	c.mu.Lock()
	c.systemDark = prefersDark
	follow := c.explicit == nil
	c.mu.Unlock()

	if follow {
		c.apply()
	}
}

// OnCrossTabChange applies a value written to the store by another page.
// ok is false when the key was removed. Last write wins.
func (c *Controller) OnCrossTabChange(value string, ok bool) {
	var explicit *bool
	if ok {
		explicit = Parse(value)
	}

	c.mu.Lock()
	c.explicit = explicit
	c.mu.Unlock()

	c.apply()
}

// Effective returns the theme currently applied to the page.
func (c *Controller) Effective() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveLocked()
}

// Explicit returns the explicit choice, or nil if none was made.
func (c *Controller) Explicit() *bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.explicit == nil {
		return nil
	}
	v := *c.explicit
	return &v
}

// apply hands the current effective theme to the applier. A mutation racing
// with an earlier apply is followed by its own apply, which reads the newer
// state.
func (c *Controller) apply() bool {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()
	dark := c.Effective()
	c.applier.ApplyTheme(dark)
	return dark
}

func (c *Controller) effectiveLocked() bool {
	if c.explicit != nil {
		return *c.explicit
	}
	return c.systemDark
}
