package notify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	subjects []string
	bodies   []string
	failNext bool
}

func (f *fakeMailer) Send(ctx context.Context, subject, body string) error {
	if f.failNext {
		f.failNext = false
		return assert.AnError
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func TestSink_DrainAndEmitBatchesByClass(t *testing.T) {
	mailer := &fakeMailer{}
	s := New(mailer, nil)

	id1, id2 := uuid.New(), uuid.New()
	s.NotifyAmbiguousMatch("vorgang", []uuid.UUID{id1, id2})
	s.NotifyEnumAdded("schlagwort", "klimaschutz")
	s.NotifySonstigUnwrapped(id1, "vorgangstyp", "Ueberraschung")

	s.drainAndEmit(context.Background())

	require.Len(t, mailer.subjects, 3, "each of the three classes emits its own batch")
	assert.Contains(t, mailer.subjects, "[ltzfd] AmbiguousMatch (1)")
	assert.Contains(t, mailer.subjects, "[ltzfd] EnumAdded (1)")
	assert.Contains(t, mailer.subjects, "[ltzfd] SonstigUnwrapped (1)")
}

func TestSink_DrainAndEmitEmptyBufferSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	s := New(mailer, nil)
	s.drainAndEmit(context.Background())
	assert.Empty(t, mailer.subjects)
}

func TestSink_DrainAndEmitWithNilMailerDoesNotPanic(t *testing.T) {
	s := New(nil, nil)
	s.NotifyEnumAdded("schlagwort", "klimaschutz")
	assert.NotPanics(t, func() { s.drainAndEmit(context.Background()) })
}

func TestSink_MailSendFailureDoesNotBlockOtherClasses(t *testing.T) {
	mailer := &fakeMailer{failNext: true}
	s := New(mailer, nil)
	s.NotifyEnumAdded("schlagwort", "klimaschutz")
	s.NotifySonstigUnwrapped(uuid.New(), "vorgangstyp", "Ueberraschung")

	assert.NotPanics(t, func() { s.drainAndEmit(context.Background()) })
	assert.Len(t, mailer.subjects, 1, "the failing class is dropped, the other still sends")
}

func TestSink_StartStopDrainsOnTicker(t *testing.T) {
	mailer := &fakeMailer{}
	s := New(mailer, nil)
	s.tick = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	s.NotifyEnumAdded("schlagwort", "klimaschutz")

	require.Eventually(t, func() bool {
		return len(mailer.subjects) == 1
	}, time.Second, 5*time.Millisecond, "the background worker should drain the buffer on its next tick")
}

func TestAmbiguousMatchEvent_StringifiesApiIDs(t *testing.T) {
	id := uuid.New()
	ev := AmbiguousMatchEvent("vorgang", []uuid.UUID{id}, time.Now())
	assert.Equal(t, []string{id.String()}, ev.ApiIDs)
	assert.Equal(t, ClassAmbiguousMatch, ev.Class)
}

func TestRenderBatch_IncludesMessageAndApiIDs(t *testing.T) {
	id := uuid.New()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	subject, body := renderBatch(ClassAmbiguousMatch, []Event{AmbiguousMatchEvent("vorgang", []uuid.UUID{id}, now)})
	assert.Equal(t, "[ltzfd] AmbiguousMatch (1)", subject)
	assert.Contains(t, body, "vorgang: ambiguous match")
	assert.Contains(t, body, id.String())
}
