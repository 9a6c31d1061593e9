package contact

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/clock"
)

// Timings of the contact section.
const (
	FlipDuration   = 3 * time.Second
	NoticeFadeIn   = 1 * time.Second
	NoticeClear    = 2 * time.Second
	SuccessDismiss = 5 * time.Second
)

// ErrClipboardTimeout is returned by clipboards that gave up waiting for the
// page to confirm a write.
var ErrClipboardTimeout = errors.New("clipboard write not confirmed")

// Clipboard writes text to the visitor's clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Geometry reports the page's current scroll offset.
type Geometry interface {
	ScrollOffset() Point
}

// Deps are the collaborators of a Controller. Geometry and OnChange may be nil.
type Deps struct {
	Clipboard Clipboard
	Geometry  Geometry
	Submitter Submitter
	Scheduler clock.Scheduler
	Logger    *zap.Logger

	// OnChange receives a snapshot after every state change, including
	// timer-driven ones. It is called with the controller locked and must
	// not call back into the Controller.
	OnChange func(State)
}

// Controller owns one contact form. Every timer it schedules belongs to a
// generation; bumping the generation turns callbacks of superseded actions
// into no-ops.
type Controller struct {
	deps Deps
	log  *zap.Logger

	mu         sync.Mutex
	closed     bool
	fields     Fields
	errors     map[Field]string
	submission Submission
	message    *Message
	errorFlip  bool
	notice     *Notice

	flipGen    uint64
	flipTimer  clock.Timer
	noticeGen  uint64
	copySeq    uint64
	fadeTimer  clock.Timer
	clearTimer clock.Timer
	msgGen     uint64
	msgTimer   clock.Timer
	submitGen  uint64
	cancelSend context.CancelFunc
}

// NewController creates a Controller with empty fields.
func NewController(deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = clock.Real{}
	}
	return &Controller{deps: deps, log: log, errors: map[Field]string{}}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// UpdateField stores a keystroke. Phone numbers are reformatted, the first
// letter of the name is capitalized, and any error on the field is cleared.
func (c *Controller) UpdateField(f Field, raw string) error {
	if _, err := ParseField(string(f)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	switch f {
	case FieldPhone:
		raw = FormatPhone(raw)
	case FieldName:
		raw = CapitalizeName(raw)
	}
	c.fields.set(f, raw)
	delete(c.errors, f)
	c.notifyLocked()
	return nil
}

// Submit validates the form and, when it is valid, hands it to the
// submitter. It reports false when the call was ignored because a
// submission is already in flight or the controller is closed.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed || c.submission == Submitting {
		c.mu.Unlock()
		return false
	}

	c.clearMessageLocked()
	c.errors = map[Field]string{}
	c.submission = Validating

	if errs := Validate(c.fields); len(errs) > 0 {
		c.errors = errs
		c.submission = Failed
		c.message = &Message{Text: MsgValidationFailed, Kind: KindError}
		c.triggerFlipLocked()
		c.notifyLocked()
		c.mu.Unlock()
		return true
	}

	c.submission = Submitting
	c.submitGen++
	gen := c.submitGen
	sendCtx, cancel := context.WithCancel(ctx)
	c.cancelSend = cancel
	fields := c.fields
	c.notifyLocked()
	c.mu.Unlock()

	// Unlocked: the submitter may call done synchronously.
	c.send(sendCtx, gen, fields)
	return true
}

func (c *Controller) send(ctx context.Context, gen uint64, fields Fields) {
	defer func() {
		if r := recover(); r != nil {
			c.finishSubmit(gen, fmt.Errorf("submitter panicked: %v", r))
		}
	}()
	c.deps.Submitter.Submit(ctx, fields, func(err error) {
		c.finishSubmit(gen, err)
	})
}

func (c *Controller) finishSubmit(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.submitGen || c.submission != Submitting {
		return
	}
	if c.cancelSend != nil {
		c.cancelSend()
		c.cancelSend = nil
	}

	if err != nil {
		c.log.Warn("contact submission failed", zap.Error(err))
		c.submission = Failed
		c.message = &Message{Text: MsgSendFailed, Kind: KindError}
		c.triggerFlipLocked()
		c.notifyLocked()
		return
	}

	c.submission = Succeeded
	c.fields = Fields{}
	c.message = &Message{Text: MsgSent, Kind: KindSuccess}
	c.msgGen++
	mgen := c.msgGen
	c.msgTimer = c.deps.Scheduler.AfterFunc(SuccessDismiss, func() { c.expireMessage(mgen) })
	c.notifyLocked()
}

func (c *Controller) expireMessage(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.msgGen {
		return
	}
	c.dismissLocked()
	c.notifyLocked()
}

// DismissMessage hides the form banner before its timer does.
func (c *Controller) DismissMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.message == nil {
		return
	}
	c.dismissLocked()
	c.notifyLocked()
}

func (c *Controller) dismissLocked() {
	c.clearMessageLocked()
	if c.submission == Succeeded {
		c.submission = Idle
	}
}

func (c *Controller) clearMessageLocked() {
	c.message = nil
	c.msgGen++
	stop(&c.msgTimer)
}

// triggerFlipLocked shows the error side of the details card for at least
// FlipDuration from now, restarting any running window.
func (c *Controller) triggerFlipLocked() {
	c.errorFlip = true
	c.flipGen++
	gen := c.flipGen
	stop(&c.flipTimer)
	c.flipTimer = c.deps.Scheduler.AfterFunc(FlipDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.flipGen {
			return
		}
		c.errorFlip = false
		c.flipTimer = nil
		c.notifyLocked()
	})
}

// Copy writes value to the clipboard and shows the copied popup, replacing
// any popup still on screen. pos is the pointer position in page
// coordinates, nil for keyboard activation. A failed write is logged and
// returned; no popup is shown. When copies overlap, only the one started
// last may show its popup, whatever order the writes finish in.
func (c *Controller) Copy(ctx context.Context, value string, pos *Point) error {
	if value == "" {
		return nil
	}
	c.mu.Lock()
	c.copySeq++
	ticket := c.copySeq
	c.mu.Unlock()

	if err := c.deps.Clipboard.WriteText(ctx, value); err != nil {
		c.log.Info("copy failed", zap.String("value", value), zap.Error(err))
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	var anchor *Point
	if pos != nil {
		var off Point
		if c.deps.Geometry != nil {
			off = c.deps.Geometry.ScrollOffset()
		}
		anchor = &Point{X: pos.X - off.X, Y: pos.Y - off.Y}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || ticket != c.copySeq {
		return nil
	}
	stop(&c.fadeTimer)
	stop(&c.clearTimer)
	c.noticeGen++
	gen := c.noticeGen
	c.notice = &Notice{Value: value, Anchor: anchor}
	c.fadeTimer = c.deps.Scheduler.AfterFunc(NoticeFadeIn, func() { c.fadeNotice(gen) })
	c.clearTimer = c.deps.Scheduler.AfterFunc(NoticeClear, func() { c.clearNotice(gen) })
	c.notifyLocked()
	return nil
}

func (c *Controller) fadeNotice(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.noticeGen || c.notice == nil {
		return
	}
	c.notice.Fading = true
	c.fadeTimer = nil
	c.notifyLocked()
}

func (c *Controller) clearNotice(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.noticeGen {
		return
	}
	c.notice = nil
	c.fadeTimer = nil
	c.clearTimer = nil
	c.notifyLocked()
}

// Close cancels every pending timer and an in-flight submission. The
// controller ignores all calls afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.flipGen++
	c.noticeGen++
	c.msgGen++
	c.submitGen++
	stop(&c.flipTimer)
	stop(&c.fadeTimer)
	stop(&c.clearTimer)
	stop(&c.msgTimer)
	if c.cancelSend != nil {
		c.cancelSend()
		c.cancelSend = nil
	}
}

func (c *Controller) snapshotLocked() State {
	st := State{
		Fields:     c.fields,
		Errors:     maps.Clone(c.errors),
		Submission: c.submission,
		Loading:    c.submission == Submitting,
		ErrorFlip:  c.errorFlip,
	}
	if c.message != nil {
		m := *c.message
		st.Message = &m
	}
	if c.notice != nil {
		n := *c.notice
		if n.Anchor != nil {
			a := *n.Anchor
			n.Anchor = &a
		}
		st.Notice = &n
	}
	return st
}

func (c *Controller) notifyLocked() {
	if c.deps.OnChange != nil {
		c.deps.OnChange(c.snapshotLocked())
	}
}

func stop(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
