package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wentitech/wentitech/internal/clock"
)

type fakeClipboard struct {
	err    error
	writes []string
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

type fixedGeometry Point

func (g fixedGeometry) ScrollOffset() Point { return Point(g) }

type failingSubmitter struct{ err error }

func (f failingSubmitter) Submit(_ context.Context, _ Fields, done func(error)) { done(f.err) }

type panickingSubmitter struct{}

func (panickingSubmitter) Submit(context.Context, Fields, func(error)) {
	panic("network stack exploded")
}

type harness struct {
	ctrl    *Controller
	clock   *clock.Manual
	clip    *fakeClipboard
	changes int
	last    State
}

func newHarness(t *testing.T, submitter func(clock.Scheduler) Submitter) *harness {
	t.Helper()
	h := &harness{clock: clock.NewManual(), clip: &fakeClipboard{}}
	var sub Submitter = NewSimulatedSubmitter(h.clock, 900*time.Millisecond)
	if submitter != nil {
		sub = submitter(h.clock)
	}
	h.ctrl = NewController(Deps{
		Clipboard: h.clip,
		Geometry:  fixedGeometry{X: 0, Y: 300},
		Submitter: sub,
		Scheduler: h.clock,
		OnChange: func(s State) {
			h.changes++
			h.last = s
		},
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) fillValid(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.UpdateField(FieldName, "jan"))
	require.NoError(t, h.ctrl.UpdateField(FieldEmail, "jan@example.pl"))
	require.NoError(t, h.ctrl.UpdateField(FieldPhone, "601514423"))
	require.NoError(t, h.ctrl.UpdateField(FieldMessage, "Proszę o wycenę."))
}

func TestUpdateFieldFormatsInput(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.UpdateField(FieldPhone, "48601514423"))
	require.NoError(t, h.ctrl.UpdateField(FieldName, " anna"))
	require.NoError(t, h.ctrl.UpdateField(FieldEmail, " Anna@Example.pl"))

	st := h.ctrl.State()
	assert.Equal(t, "+48 601 514 423", st.Fields.Phone)
	assert.Equal(t, " Anna", st.Fields.Name)
	assert.Equal(t, " Anna@Example.pl", st.Fields.Email)
	assert.Equal(t, st, h.last)
}

func TestUpdateFieldInvalidUTF8Name(t *testing.T) {
	h := newHarness(t, nil)
	require.NotPanics(t, func() {
		require.NoError(t, h.ctrl.UpdateField(FieldName, "\xff"))
	})
	assert.Equal(t, "\xff", h.ctrl.State().Fields.Name)
}

func TestUpdateFieldUnknown(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.ctrl.UpdateField("fax", "1"), ErrUnknownField)
	assert.Zero(t, h.changes)
}

func TestEditClearsOnlyThatFieldError(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Submit(context.Background())
	require.Len(t, h.ctrl.State().Errors, 3)

	require.NoError(t, h.ctrl.UpdateField(FieldEmail, "x"))
	errs := h.ctrl.State().Errors
	assert.NotContains(t, errs, FieldEmail)
	assert.Contains(t, errs, FieldName)
	assert.Contains(t, errs, FieldMessage)
}

func TestSubmitInvalidFlipsCard(t *testing.T) {
	h := newHarness(t, nil)

	assert.True(t, h.ctrl.Submit(context.Background()))
	st := h.ctrl.State()
	assert.Equal(t, Failed, st.Submission)
	assert.Len(t, st.Errors, 3)
	assert.True(t, st.ErrorFlip)
	require.NotNil(t, st.Message)
	assert.Equal(t, Message{Text: MsgValidationFailed, Kind: KindError}, *st.Message)

	h.clock.Advance(FlipDuration - time.Millisecond)
	assert.True(t, h.ctrl.State().ErrorFlip)
	h.clock.Advance(time.Millisecond)
	assert.False(t, h.ctrl.State().ErrorFlip)
	assert.False(t, h.last.ErrorFlip)
}

func TestRepeatedFailureRestartsFlipWindow(t *testing.T) {
	h := newHarness(t, nil)

	h.ctrl.Submit(context.Background())
	h.clock.Advance(time.Second)
	h.ctrl.Submit(context.Background())

	// The first window would have ended 2s after the second failure.
	h.clock.Advance(2 * time.Second)
	assert.True(t, h.ctrl.State().ErrorFlip)
	h.clock.Advance(999 * time.Millisecond)
	assert.True(t, h.ctrl.State().ErrorFlip)
	h.clock.Advance(time.Millisecond)
	assert.False(t, h.ctrl.State().ErrorFlip)
	assert.Equal(t, 0, h.clock.Pending())
}

func TestSubmitSuccess(t *testing.T) {
	h := newHarness(t, nil)
	h.fillValid(t)

	require.True(t, h.ctrl.Submit(context.Background()))
	st := h.ctrl.State()
	assert.Equal(t, Submitting, st.Submission)
	assert.True(t, st.Loading)
	assert.Empty(t, st.Errors)
	assert.Nil(t, st.Message)

	assert.False(t, h.ctrl.Submit(context.Background()), "re-entrant submit must be ignored")

	h.clock.Advance(899 * time.Millisecond)
	assert.True(t, h.ctrl.State().Loading, "loading stays observable for the whole wait")

	h.clock.Advance(time.Millisecond)
	st = h.ctrl.State()
	assert.Equal(t, Succeeded, st.Submission)
	assert.False(t, st.Loading)
	assert.Equal(t, Fields{}, st.Fields)
	require.NotNil(t, st.Message)
	assert.Equal(t, KindSuccess, st.Message.Kind)
	assert.Equal(t, MsgSent, st.Message.Text)

	h.clock.Advance(SuccessDismiss - time.Millisecond)
	assert.NotNil(t, h.ctrl.State().Message)
	h.clock.Advance(time.Millisecond)
	st = h.ctrl.State()
	assert.Nil(t, st.Message)
	assert.Equal(t, Idle, st.Submission)
}

func TestDismissedSuccessTimerDoesNotHideNextMessage(t *testing.T) {
	h := newHarness(t, nil)
	h.fillValid(t)
	h.ctrl.Submit(context.Background())
	h.clock.Advance(900 * time.Millisecond)

	h.clock.Advance(time.Second)
	h.ctrl.DismissMessage()
	assert.Nil(t, h.ctrl.State().Message)

	h.fillValid(t)
	h.ctrl.Submit(context.Background())
	h.clock.Advance(900 * time.Millisecond)
	require.NotNil(t, h.ctrl.State().Message)

	// The first success would have expired here.
	h.clock.Advance(3100 * time.Millisecond)
	assert.NotNil(t, h.ctrl.State().Message)
	h.clock.Advance(1900 * time.Millisecond)
	assert.Nil(t, h.ctrl.State().Message)
}

func TestSubmitFailurePath(t *testing.T) {
	submitters := map[string]func(clock.Scheduler) Submitter{
		"error": func(clock.Scheduler) Submitter {
			return failingSubmitter{err: errors.New("503 from relay")}
		},
		"panic": func(clock.Scheduler) Submitter { return panickingSubmitter{} },
	}
	for name, sub := range submitters {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, sub)
			h.fillValid(t)

			assert.True(t, h.ctrl.Submit(context.Background()))
			st := h.ctrl.State()
			assert.Equal(t, Failed, st.Submission)
			assert.False(t, st.Loading)
			assert.True(t, st.ErrorFlip)
			require.NotNil(t, st.Message)
			assert.Equal(t, Message{Text: MsgSendFailed, Kind: KindError}, *st.Message)
			assert.Equal(t, "Jan", st.Fields.Name, "fields survive a failed send")

			h.clock.Advance(FlipDuration)
			assert.False(t, h.ctrl.State().ErrorFlip)
			assert.True(t, h.ctrl.Submit(context.Background()), "resubmitting is allowed after failure")
		})
	}
}

func TestCopyShowsNotice(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Copy(context.Background(), "5862400243", &Point{X: 120, Y: 900}))
	assert.Equal(t, []string{"5862400243"}, h.clip.writes)

	st := h.ctrl.State()
	require.NotNil(t, st.Notice)
	assert.Equal(t, "5862400243", st.Notice.Value)
	assert.Equal(t, &Point{X: 120, Y: 600}, st.Notice.Anchor)
	assert.False(t, st.Notice.Fading)
	assert.Equal(t, "Skopiowano: 5862400243", st.Notice.Announcement())

	h.clock.Advance(NoticeFadeIn)
	require.NotNil(t, h.ctrl.State().Notice)
	assert.True(t, h.ctrl.State().Notice.Fading)

	h.clock.Advance(NoticeClear - NoticeFadeIn)
	assert.Nil(t, h.ctrl.State().Notice)
}

func TestCopyWithoutPointer(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.Copy(context.Background(), "81-395", nil))
	require.NotNil(t, h.ctrl.State().Notice)
	assert.Nil(t, h.ctrl.State().Notice.Anchor)
}

func TestLatestCopyWins(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.Copy(context.Background(), "x", nil))
	h.clock.Advance(500 * time.Millisecond)
	require.NoError(t, h.ctrl.Copy(context.Background(), "y", nil))
	assert.Equal(t, 2, h.clock.Pending(), "superseded timers are cancelled")

	// x's fade would fire here.
	h.clock.Advance(500 * time.Millisecond)
	st := h.ctrl.State()
	require.NotNil(t, st.Notice)
	assert.Equal(t, "y", st.Notice.Value)
	assert.False(t, st.Notice.Fading)

	// x's clear would fire here.
	h.clock.Advance(time.Second)
	st = h.ctrl.State()
	require.NotNil(t, st.Notice)
	assert.Equal(t, "y", st.Notice.Value)
	assert.True(t, st.Notice.Fading)

	h.clock.Advance(500 * time.Millisecond)
	assert.Nil(t, h.ctrl.State().Notice)
}

// gatedClipboard holds writes of gated values until release is closed.
type gatedClipboard struct {
	gated   string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedClipboard) WriteText(_ context.Context, text string) error {
	if text == g.gated {
		close(g.entered)
		<-g.release
	}
	return nil
}

func TestLatestCopyWinsWhenWritesFinishOutOfOrder(t *testing.T) {
	clip := &gatedClipboard{gated: "x", entered: make(chan struct{}), release: make(chan struct{})}
	sched := clock.NewManual()
	ctrl := NewController(Deps{
		Clipboard: clip,
		Submitter: NewSimulatedSubmitter(sched, time.Second),
		Scheduler: sched,
	})
	t.Cleanup(ctrl.Close)

	done := make(chan error, 1)
	go func() { done <- ctrl.Copy(context.Background(), "x", nil) }()
	<-clip.entered

	require.NoError(t, ctrl.Copy(context.Background(), "y", nil))
	close(clip.release)
	require.NoError(t, <-done)

	st := ctrl.State()
	require.NotNil(t, st.Notice)
	assert.Equal(t, "y", st.Notice.Value)
	assert.Equal(t, 2, sched.Pending(), "only y's fade and clear are scheduled")

	sched.Advance(NoticeClear)
	assert.Nil(t, ctrl.State().Notice)
}

func TestCopyFailureShowsNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.clip.err = errors.New("permission denied")

	err := h.ctrl.Copy(context.Background(), "x", nil)
	assert.Error(t, err)
	assert.Nil(t, h.ctrl.State().Notice)
	assert.Nil(t, h.ctrl.State().Message, "clipboard failures never become form errors")
	assert.Zero(t, h.changes)
}

func TestCopyEmptyValueIgnored(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.Copy(context.Background(), "", nil))
	assert.Empty(t, h.clip.writes)
	assert.Nil(t, h.ctrl.State().Notice)
}

func TestCloseCancelsTimers(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Submit(context.Background())
	require.NoError(t, h.ctrl.Copy(context.Background(), "x", nil))
	require.Equal(t, 3, h.clock.Pending())

	h.ctrl.Close()
	assert.Equal(t, 0, h.clock.Pending())

	changes := h.changes
	h.clock.Advance(time.Minute)
	assert.Equal(t, changes, h.changes)
	assert.False(t, h.ctrl.Submit(context.Background()))
}

func TestCloseDuringSubmissionDropsCompletion(t *testing.T) {
	h := newHarness(t, nil)
	h.fillValid(t)
	h.ctrl.Submit(context.Background())
	changes := h.changes

	h.ctrl.Close()
	h.clock.Advance(time.Minute)
	assert.Equal(t, changes, h.changes)
	assert.Equal(t, Submitting, h.ctrl.State().Submission)
}

func TestSubmissionString(t *testing.T) {
	assert.Equal(t, "submitting", Submitting.String())
	text, err := Failed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(text))
	assert.Equal(t, "submission(9)", Submission(9).String())
}
