package server

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func runHub(t *testing.T, h *Hub) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ctx
}

func newClockedHub(t *testing.T, idle time.Duration) (*Hub, *dataset.Source, *fakeClock) {
	t.Helper()
	src := dataset.NewSource(writeSurvey(t), nil)
	h := NewHub(src, session.DefaultOptions(), nil)
	h.SetIdleTimeout(idle)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	h.now = clock.Now
	return h, src, clock
}

// held reports whether id is still in the hub without counting as a use.
func held(t *testing.T, ctx context.Context, h *Hub, id string) bool {
	t.Helper()
	var ok bool
	assert.NoError(t, h.exec(ctx, func() { _, ok = h.sessions[id] }))
	return ok
}

func sweep(t *testing.T, ctx context.Context, h *Hub, clock *fakeClock) {
	t.Helper()
	require.NoError(t, h.exec(ctx, func() { h.expireIdle(clock.Now()) }))
}

func TestHub_ExpiresAbandonedSessions(t *testing.T) {
	h, _, clock := newClockedHub(t, time.Minute)
	ctx := runHub(t, h)

	ids := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		v, err := h.CreateSession(ctx)
		require.NoError(t, err)
		ids = append(ids, v.SessionID)
	}
	kept := ids[0]

	clock.Advance(45 * time.Second)
	_, err := h.Dashboard(ctx, kept)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	sweep(t, ctx, h, clock)

	assert.True(t, held(t, ctx, h, kept), "recently used session survives")
	for _, id := range ids[1:] {
		assert.False(t, held(t, ctx, h, id))
	}
	var open int
	require.NoError(t, h.exec(ctx, func() { open = len(h.sessions) + len(h.lastUsed) }))
	assert.Equal(t, 2, open)

	_, err = h.Dashboard(ctx, ids[1])
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHub_ZeroIdleTimeoutKeepsSessions(t *testing.T) {
	h, _, clock := newClockedHub(t, 0)
	ctx := runHub(t, h)
	v, err := h.CreateSession(ctx)
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	sweep(t, ctx, h, clock)
	assert.True(t, held(t, ctx, h, v.SessionID))
}

func TestHub_RunSweepsOnTicker(t *testing.T) {
	src := dataset.NewSource(writeSurvey(t), nil)
	h := NewHub(src, session.DefaultOptions(), nil)
	h.SetIdleTimeout(50 * time.Millisecond)
	ctx := runHub(t, h)

	v, err := h.CreateSession(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return !held(t, ctx, h, v.SessionID)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHub_ConnectedSessionIsNotExpired(t *testing.T) {
	h, src, clock := newClockedHub(t, time.Minute)
	ctx := runHub(t, h)
	srv, err := New(src, h, Options{PreviewRows: 2, DefaultCountryCount: 5}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	v, err := h.CreateSession(ctx)
	require.NoError(t, err)
	id := v.SessionID

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, id), nil)
	require.NoError(t, err)
	clients := func() int {
		var n int
		assert.NoError(t, h.exec(ctx, func() { n = len(h.clients[id]) }))
		return n
	}
	require.Eventually(t, func() bool { return clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	clock.Advance(time.Hour)
	sweep(t, ctx, h, clock)
	assert.True(t, held(t, ctx, h, id), "a session with a live socket is kept")

	// The idle period starts when the last client leaves.
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	clock.Advance(30 * time.Second)
	sweep(t, ctx, h, clock)
	assert.True(t, held(t, ctx, h, id))

	clock.Advance(time.Minute)
	sweep(t, ctx, h, clock)
	assert.False(t, held(t, ctx, h, id))
}
