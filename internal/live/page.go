package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/clock"
	"github.com/wentitech/wentitech/internal/contact"
	"github.com/wentitech/wentitech/internal/metrics"
	"github.com/wentitech/wentitech/internal/nav"
	"github.com/wentitech/wentitech/internal/store"
	"github.com/wentitech/wentitech/internal/theme"
)

const (
	sendBuffer   = 64
	readLimit    = 64 << 10
	writeTimeout = 5 * time.Second
)

var (
	// ErrUnknownEvent is returned for events the page does not understand.
	ErrUnknownEvent = errors.New("unknown event")

	errNoVisitor     = errors.New("no visitor session")
	errSendQueueFull = errors.New("send queue full")
)

// PageDeps are shared by every page.
type PageDeps struct {
	Hub              *Hub
	Prefs            store.PreferenceStoreIface
	Scheduler        clock.Scheduler
	SubmitLatency    time.Duration
	ClipboardTimeout time.Duration
	Logger           *zap.Logger
}

// Page is the server side of one open tab.
type Page struct {
	id        string
	visitorID string
	deps      PageDeps
	logger    *zap.Logger
	send      chan Message

	// stale is closed when a state push could not be queued; the tab is
	// then out of step and the connection is dropped so it reconnects.
	stale     chan struct{}
	staleOnce sync.Once

	theme *theme.Controller
	form  *contact.Controller

	mu          sync.Mutex
	prefersDark bool
	scroll      contact.Point
	pending     map[string]chan error
	copies      sync.WaitGroup

	// guarded by the form controller's lock
	lastSubmission contact.Submission
}

// NewPage creates the page of a tab whose browser reported prefersDark when
// connecting. An empty visitorID means the browser has no session; the
// theme then lives in memory only.
func NewPage(visitorID string, prefersDark bool, deps PageDeps) *Page {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = clock.Real{}
	}
	id := uuid.NewString()
	p := &Page{
		id:          id,
		visitorID:   visitorID,
		deps:        deps,
		logger:      deps.Logger.With(zap.String("page_id", id)),
		send:        make(chan Message, sendBuffer),
		stale:       make(chan struct{}),
		prefersDark: prefersDark,
		pending:     make(map[string]chan error),
	}
	p.theme = theme.NewController(pageStore{p}, p, p, p.logger)
	p.form = contact.NewController(contact.Deps{
		Clipboard: p,
		Geometry:  p,
		Submitter: contact.NewSimulatedSubmitter(deps.Scheduler, deps.SubmitLatency),
		Scheduler: deps.Scheduler,
		Logger:    p.logger,
		OnChange:  p.onFormChange,
	})
	return p
}

// ID returns the page's identifier.
func (p *Page) ID() string { return p.id }

// Run serves the page over conn until the browser goes away or ctx ends.
func (p *Page) Run(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn.SetReadLimit(readLimit)
	p.deps.Hub.Register(p)
	p.Start(ctx)

	done := make(chan struct{})
	go func() {
		p.writePump(ctx, conn)
		cancel()
		close(done)
	}()
	go func() {
		select {
		case <-p.stale:
			p.logger.Warn("page fell behind, closing connection")
			cancel()
		case <-ctx.Done():
		}
	}()

	p.readPump(ctx, conn)

	cancel()
	p.deps.Hub.Unregister(p)
	p.Close()
	_ = conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// Start applies the initial theme and sends the empty form.
func (p *Page) Start(ctx context.Context) {
	p.theme.Initialize(ctx)
	p.push(Message{Type: MessageForm, Data: p.form.State()})
}

// Close tears the page down: timers are cancelled and outstanding clipboard
// writes fail.
func (p *Page) Close() {
	p.form.Close()

	p.mu.Lock()
	for id, ack := range p.pending {
		select {
		case ack <- context.Canceled:
		default:
		}
		delete(p.pending, id)
	}
	p.mu.Unlock()

	p.copies.Wait()
}

func (p *Page) readPump(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			p.logger.Debug("malformed event", zap.Error(err))
			continue
		}
		if err := p.Handle(ctx, ev); err != nil {
			p.logger.Debug("event rejected", zap.String("type", string(ev.Type)), zap.Error(err))
		}
	}
}

func (p *Page) writePump(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, msg)
			cancel()
			if err != nil {
				p.logger.Debug("websocket write error", zap.Error(err))
				return
			}
		}
	}
}

// Handle dispatches one browser event. Copies run in the background because
// they wait for the browser's acknowledgement, which arrives as another event.
func (p *Page) Handle(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventScheme:
		p.mu.Lock()
		p.prefersDark = ev.PrefersDark
		p.mu.Unlock()
		p.theme.OnSystemPreferenceChange(ev.PrefersDark)

	case EventToggle:
		p.theme.Toggle(ctx)
		metrics.ThemeTogglesTotal.WithLabelValues("live").Inc()

	case EventField:
		f, err := contact.ParseField(ev.Field)
		if err != nil {
			return err
		}
		return p.form.UpdateField(f, ev.Value)

	case EventSubmit:
		if !p.form.Submit(ctx) {
			return nil
		}
		if st := p.form.State(); st.Submission == contact.Failed && len(st.Errors) > 0 {
			metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		}

	case EventCopy:
		p.mu.Lock()
		p.scroll = ev.Scroll
		p.mu.Unlock()
		p.copies.Add(1)
		go func() {
			defer p.copies.Done()
			if err := p.form.Copy(ctx, ev.Value, ev.Pointer); err != nil {
				metrics.CopiesTotal.WithLabelValues("error").Inc()
				return
			}
			metrics.CopiesTotal.WithLabelValues("ok").Inc()
		}()

	case EventCopied:
		p.resolveClipboard(ev)

	case EventDismiss:
		p.form.DismissMessage()

	case EventNavigate:
		if !nav.IsSection(ev.Section) {
			return fmt.Errorf("navigate to %q: no such section", ev.Section)
		}
		p.enqueue(Message{Type: MessageScroll, Data: ScrollData{
			Section: ev.Section,
			Top:     nav.ScrollTarget(ev.Top, ev.Scroll.Y, ev.HeaderHeight),
		}})

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

func (p *Page) enqueue(msg Message) bool {
	select {
	case p.send <- msg:
		return true
	default:
		p.logger.Warn("page send buffer full, dropping message", zap.String("type", string(msg.Type)))
		return false
	}
}

// push queues a theme or form snapshot. Losing one would leave the tab
// showing stale state, so a full buffer marks the page stale instead.
func (p *Page) push(msg Message) {
	if p.enqueue(msg) {
		return
	}
	p.staleOnce.Do(func() { close(p.stale) })
}

// Stale is closed once the page has dropped a state push.
func (p *Page) Stale() <-chan struct{} { return p.stale }

// onFormChange relays form snapshots and counts finished submissions.
func (p *Page) onFormChange(st contact.State) {
	if p.lastSubmission == contact.Submitting {
		switch st.Submission {
		case contact.Succeeded:
			metrics.SubmissionsTotal.WithLabelValues("sent").Inc()
		case contact.Failed:
			metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		}
	}
	p.lastSubmission = st.Submission
	p.push(Message{Type: MessageForm, Data: st})
}

func (p *Page) onPreferenceChanged(key, value string, ok bool) {
	if key != theme.Key {
		return
	}
	p.theme.OnCrossTabChange(value, ok)
}

// PrefersDark implements theme.SchemeSource.
func (p *Page) PrefersDark() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefersDark
}

// ApplyTheme implements theme.Applier.
func (p *Page) ApplyTheme(dark bool) {
	p.push(Message{Type: MessageTheme, Data: ThemeData{
		Dark:  dark,
		Name:  theme.NameOf(dark),
		Label: theme.ToggleLabel(dark),
	}})
}

// ScrollOffset implements contact.Geometry.
func (p *Page) ScrollOffset() contact.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll
}

// WriteText implements contact.Clipboard by asking the browser to write the
// text and waiting for its acknowledgement.
func (p *Page) WriteText(ctx context.Context, text string) error {
	id := uuid.NewString()
	ack := make(chan error, 1)

	p.mu.Lock()
	p.pending[id] = ack
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	if !p.enqueue(Message{Type: MessageClipboard, Data: ClipboardData{ID: id, Text: text}}) {
		return errSendQueueFull
	}

	timeout := p.deps.ClipboardTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return contact.ErrClipboardTimeout
		}
		return ctx.Err()
	}
}

func (p *Page) resolveClipboard(ev Event) {
	p.mu.Lock()
	ack, ok := p.pending[ev.ID]
	delete(p.pending, ev.ID)
	p.mu.Unlock()
	if !ok {
		return
	}

	var err error
	if !ev.OK {
		msg := ev.Error
		if msg == "" {
			msg = "rejected by browser"
		}
		err = fmt.Errorf("clipboard write: %s", msg)
	}
	ack <- err
}

// pageStore adapts the visitor's stored preferences to theme.Store and
// tells the visitor's other tabs about every write.
type pageStore struct{ p *Page }

func (s pageStore) Load(ctx context.Context, key string) (string, bool, error) {
	if s.p.visitorID == "" || s.p.deps.Prefs == nil {
		return "", false, errNoVisitor
	}
	v, err := s.p.deps.Prefs.Get(ctx, s.p.visitorID, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s pageStore) Save(ctx context.Context, key, value string) error {
	if s.p.visitorID == "" || s.p.deps.Prefs == nil {
		return errNoVisitor
	}
	if err := s.p.deps.Prefs.Set(ctx, s.p.visitorID, key, value); err != nil {
		return err
	}
	s.p.deps.Hub.PublishPreference(s.p.visitorID, s.p, key, value, true)
	return nil
}
