package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/womenmatters/internal/chart"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/render"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrChartNotFound   = errors.New("chart not found")
	ErrHubStopped      = errors.New("hub stopped")
)

// DefaultIdleTimeout is how long a session with no connected clients and no
// requests is kept.
const DefaultIdleTimeout = 30 * time.Minute

// DashboardView is a session's rendered dashboard as sent to API clients.
type DashboardView struct {
	SessionID string `json:"session_id"`
	render.Report
}

// ApplyView is the reply to an apply request.
type ApplyView struct {
	Result    session.Result `json:"result"`
	Message   string         `json:"message"`
	Dashboard DashboardView  `json:"dashboard"`
}

// wsMessage is the envelope of every WebSocket frame.
type wsMessage struct {
	Type    string         `json:"type"`
	Filters *filter.Params `json:"filters,omitempty"`
	Data    any            `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Hub owns every dashboard session. All session state is touched only by the
// Run goroutine; callers reach it through the channel-backed methods below.
type Hub struct {
	src    *dataset.Source
	opts   session.Options
	logger *zap.Logger

	ops        chan func()
	register   chan *client
	unregister chan *client
	stopped    chan struct{}

	idleTimeout time.Duration
	now         func() time.Time

	sessions map[string]*session.Session
	lastUsed map[string]time.Time
	clients  map[string]map[*client]struct{}
}

// NewHub creates a hub serving sessions over src. Call Run to start it.
func NewHub(src *dataset.Source, opts session.Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger
	return &Hub{
		src:         src,
		opts:        opts,
		logger:      logger.Named("hub"),
		ops:         make(chan func()),
		register:    make(chan *client),
		unregister:  make(chan *client),
		stopped:     make(chan struct{}),
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session.Session),
		lastUsed:    make(map[string]time.Time),
		clients:     make(map[string]map[*client]struct{}),
	}
}

// SetIdleTimeout changes how long an unused session survives. d <= 0 keeps
// sessions until they are closed. It must be called before Run.
func (h *Hub) SetIdleTimeout(d time.Duration) { h.idleTimeout = d }

// sweepInterval is how often Run looks for idle sessions.
func (h *Hub) sweepInterval() time.Duration {
	d := h.idleTimeout / 2
	if d > time.Minute {
		d = time.Minute
	}
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}

// Run processes hub commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.stopped)
	h.logger.Info("hub started", zap.Duration("idle_timeout", h.idleTimeout))

	var sweep <-chan time.Time
	if h.idleTimeout > 0 {
		t := time.NewTicker(h.sweepInterval())
		defer t.Stop()
		sweep = t.C
	}
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = map[string]map[*client]struct{}{}
			wsClients.Set(0)
			h.logger.Info("hub stopped", zap.Int("sessions", len(h.sessions)))
			return nil

		case c := <-h.register:
			if _, ok := h.sessions[c.sessionID]; !ok {
				close(c.send)
				continue
			}
			set, ok := h.clients[c.sessionID]
			if !ok {
				set = make(map[*client]struct{})
				h.clients[c.sessionID] = set
			}
			set[c] = struct{}{}
			h.touch(c.sessionID)
			wsClients.Inc()
			h.logger.Debug("client connected", zap.String("session", c.sessionID))

		case c := <-h.unregister:
			h.drop(c)

		case fn := <-h.ops:
			fn()

		case <-sweep:
			h.expireIdle(h.now())
		}
	}
}

func (h *Hub) touch(id string) {
	if _, ok := h.sessions[id]; ok {
		h.lastUsed[id] = h.now()
	}
}

// expireIdle closes sessions that have no clients and were last used before
// now minus the idle timeout.
func (h *Hub) expireIdle(now time.Time) {
	if h.idleTimeout <= 0 {
		return
	}
	for id := range h.sessions {
		if len(h.clients[id]) > 0 {
			continue
		}
		if now.Sub(h.lastUsed[id]) < h.idleTimeout {
			continue
		}
		h.closeSession(id)
		sessionsExpired.Inc()
		h.logger.Info("session expired", zap.String("session", id))
	}
}

// closeSession forgets a session and disconnects its clients.
func (h *Hub) closeSession(id string) {
	for c := range h.clients[id] {
		h.drop(c)
	}
	delete(h.sessions, id)
	delete(h.lastUsed, id)
	sessionsOpen.Set(float64(len(h.sessions)))
}

func (h *Hub) drop(c *client) {
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
	h.touch(c.sessionID)
	close(c.send)
	wsClients.Dec()
	h.logger.Debug("client disconnected", zap.String("session", c.sessionID))
}

// exec runs fn on the Run goroutine and waits for it to finish.
func (h *Hub) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case h.ops <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.stopped:
		return ErrHubStopped
	}
	<-done
	return nil
}

func (h *Hub) view(s *session.Session) DashboardView {
	start := time.Now()
	r := render.NewReport(s)
	dashboardDuration.Observe(time.Since(start).Seconds())
	return DashboardView{SessionID: s.ID, Report: r}
}

// CreateSession starts a session showing the full cleaned dataset.
func (h *Hub) CreateSession(ctx context.Context) (DashboardView, error) {
	var (
		view DashboardView
		err  error
	)
	if xerr := h.exec(ctx, func() {
		var s *session.Session
		s, err = session.New(h.src, h.opts)
		if err != nil {
			return
		}
		h.sessions[s.ID] = s
		h.touch(s.ID)
		sessionsOpen.Set(float64(len(h.sessions)))
		view = h.view(s)
	}); xerr != nil {
		return DashboardView{}, xerr
	}
	return view, err
}

// CloseSession forgets a session and disconnects its clients.
func (h *Hub) CloseSession(ctx context.Context, id string) error {
	var err error
	if xerr := h.exec(ctx, func() {
		if _, ok := h.sessions[id]; !ok {
			err = fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			return
		}
		h.closeSession(id)
	}); xerr != nil {
		return xerr
	}
	return err
}

// HasSession reports whether id names a live session.
func (h *Hub) HasSession(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := h.exec(ctx, func() {
		_, ok = h.sessions[id]
		h.touch(id)
	})
	return ok, err
}

// Dashboard returns the current dashboard of a session.
func (h *Hub) Dashboard(ctx context.Context, id string) (DashboardView, error) {
	var (
		view DashboardView
		err  error
	)
	if xerr := h.exec(ctx, func() {
		s, ok := h.sessions[id]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			return
		}
		h.touch(id)
		view = h.view(s)
	}); xerr != nil {
		return DashboardView{}, xerr
	}
	return view, err
}

// Panel returns a single chart of a session's dashboard.
func (h *Hub) Panel(ctx context.Context, id, chartID string) (chart.Panel, error) {
	var (
		panel chart.Panel
		err   error
	)
	if xerr := h.exec(ctx, func() {
		s, ok := h.sessions[id]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			return
		}
		h.touch(id)
		p, ok := chart.PanelFor(s.Dashboard(), chartID)
		if !ok {
			err = fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
			return
		}
		panel = p
	}); xerr != nil {
		return chart.Panel{}, xerr
	}
	return panel, err
}

// Apply filters a session and pushes the refreshed dashboard to every
// WebSocket client watching it.
func (h *Hub) Apply(ctx context.Context, id string, p filter.Params) (ApplyView, error) {
	var (
		out ApplyView
		err error
	)
	if xerr := h.exec(ctx, func() {
		s, ok := h.sessions[id]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			return
		}
		h.touch(id)
		var res session.Result
		res, err = s.Apply(p)
		if err != nil {
			applyTotal.WithLabelValues("invalid").Inc()
			return
		}
		if res.Empty {
			applyTotal.WithLabelValues("empty").Inc()
		} else {
			applyTotal.WithLabelValues("ok").Inc()
		}
		activeRecords.Set(float64(res.Records))
		out = ApplyView{Result: res, Message: res.Message(), Dashboard: h.view(s)}
		h.broadcast(id, wsMessage{Type: "dashboard", Data: out})
	}); xerr != nil {
		return ApplyView{}, xerr
	}
	return out, err
}

// broadcast sends msg to the clients of one session. Clients that cannot
// keep up are dropped.
func (h *Hub) broadcast(id string, msg wsMessage) {
	set := h.clients[id]
	if len(set) == 0 {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode broadcast", zap.Error(err))
		return
	}
	for c := range set {
		select {
		case c.send <- b:
		default:
			h.drop(c)
		}
	}
}

// reply sends msg to a single client if it is still connected.
func (h *Hub) reply(ctx context.Context, c *client, msg wsMessage) error {
	return h.exec(ctx, func() {
		if _, ok := h.clients[c.sessionID][c]; !ok {
			return
		}
		b, err := json.Marshal(msg)
		if err != nil {
			h.logger.Error("encode reply", zap.Error(err))
			return
		}
		select {
		case c.send <- b:
		default:
			h.drop(c)
		}
	})
}

func (h *Hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}
