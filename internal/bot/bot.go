package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EgorLis/mcafkbot/internal/config"
	"github.com/EgorLis/mcafkbot/internal/mcclient"
	"github.com/rs/zerolog"
)

// ProtocolVersion is the game release every session announces.
const ProtocolVersion = "1.20.1"

const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultStatusInterval = 30 * time.Second
)

var ErrRunning = errors.New("bot: supervisor already running")

// Session is the handle the supervisor drives. *mcclient.Client satisfies it.
type Session interface {
	On(kind mcclient.EventKind, fn mcclient.Handler)
	Connect(ctx context.Context) error
	Close() error
}

// Factory builds a fresh, unconnected session.
type Factory func(opts mcclient.Options) Session

// ClientFactory returns a Factory producing go-mc backed sessions.
func ClientFactory(log zerolog.Logger) Factory {
	return func(opts mcclient.Options) Session {
		return mcclient.New(opts, log)
	}
}

type Option func(*Supervisor)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Supervisor) { s.log = log }
}

func WithClock(c Clock) Option {
	return func(s *Supervisor) { s.clock = c }
}

func WithFactory(f Factory) Option {
	return func(s *Supervisor) { s.factory = f }
}

func WithReconnectDelay(d time.Duration) Option {
	return func(s *Supervisor) { s.delay = d }
}

// WithStatusInterval sets how often a connected bot logs that it is still
// online. Zero disables the status line.
func WithStatusInterval(d time.Duration) Option {
	return func(s *Supervisor) { s.statusEvery = d }
}

// WithCoalescedReconnects makes every new reconnect cancel the ones still
// pending, so kicked+end for one disconnect yields a single session.
func WithCoalescedReconnects() Option {
	return func(s *Supervisor) { s.coalesce = true }
}

type msgKind int

const (
	msgEvent msgKind = iota
	msgReconnect
	msgStatus
	msgCancel
)

type message struct {
	kind  msgKind
	gen   uint64
	timer uint64
	ev    mcclient.Event
	reply chan int
}

type Supervisor struct {
	cfg         config.Config
	log         zerolog.Logger
	clock       Clock
	factory     Factory
	delay       time.Duration
	statusEvery time.Duration
	coalesce    bool

	inbox chan message

	// owned by the event loop
	current     Session
	gen         uint64
	connected   bool
	connectedAt time.Time
	pending     map[uint64]Timer
	timerSeq    uint64
	status      Timer

	sessions atomic.Int64
	running  atomic.Bool

	mu     sync.Mutex
	loop   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg config.Config, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:         cfg,
		log:         zerolog.Nop(),
		clock:       realClock{},
		delay:       DefaultReconnectDelay,
		statusEvery: DefaultStatusInterval,
		inbox:       make(chan message, 64),
		pending:     make(map[uint64]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.factory == nil {
		s.factory = ClientFactory(s.log)
	}
	s.log = s.log.With().Str("component", "supervisor").Logger()
	return s
}

// Sessions reports how many sessions have been built so far.
func (s *Supervisor) Sessions() int {
	return int(s.sessions.Load())
}

// Start runs the supervisor in the background until Stop.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.running.Load() {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Run(ctx); err != nil {
			s.log.Error().Err(err).Msg("supervisor stopped")
		}
	}()
	return nil
}

// Stop cancels a supervisor started with Start and waits for it to exit.
// Calling Stop twice is a no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
}

// Run logs the banner, builds the first session and then serves session
// events and timers until ctx is cancelled. It never returns on its own.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.running.Store(false)

	loop := make(chan struct{})
	s.mu.Lock()
	s.loop = loop
	s.mu.Unlock()
	defer close(loop)

	s.banner()
	s.start(ctx)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case m := <-s.inbox:
			s.handle(ctx, m)
		}
	}
}

// CancelPending stops every scheduled reconnect and returns how many were
// stopped. It returns 0 when the supervisor is not running.
func (s *Supervisor) CancelPending() int {
	s.mu.Lock()
	loop := s.loop
	s.mu.Unlock()
	if loop == nil {
		return 0
	}

	reply := make(chan int, 1)
	select {
	case s.inbox <- message{kind: msgCancel, reply: reply}:
	case <-loop:
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-loop:
		return 0
	}
}

func (s *Supervisor) banner() {
	s.log.Info().
		Str("server", s.cfg.Addr()).
		Str("username", s.cfg.Username).
		Str("version", ProtocolVersion).
		Msg("Minecraft AFK bot - 24/7 server keep-alive")
}

// start replaces the current session with a new one and begins connecting.
func (s *Supervisor) start(ctx context.Context) {
	if s.current != nil {
		_ = s.current.Close()
	}
	s.stopStatus()
	s.connected = false
	s.gen++
	gen := s.gen

	sess := s.factory(mcclient.Options{
		Host:     s.cfg.Host,
		Port:     s.cfg.Port,
		Username: s.cfg.Username,
		Version:  ProtocolVersion,
	})
	s.current = sess
	n := s.sessions.Add(1)

	for _, kind := range mcclient.Kinds {
		sess.On(kind, func(ev mcclient.Event) {
			s.post(ctx, message{kind: msgEvent, gen: gen, ev: ev})
		})
	}

	s.log.Info().Str("server", s.cfg.Addr()).Int64("attempt", n).Msg("connecting")
	if err := sess.Connect(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		// no "end" will follow a session that never started
		s.log.Error().Err(err).Msg("session did not start")
		s.schedule(ctx)
	}
}

func (s *Supervisor) post(ctx context.Context, m message) {
	select {
	case s.inbox <- m:
	case <-ctx.Done():
	}
}

func (s *Supervisor) handle(ctx context.Context, m message) {
	switch m.kind {
	case msgEvent:
		if m.gen != s.gen {
			s.log.Debug().Str("event", string(m.ev.Kind)).Uint64("session", m.gen).
				Msg("ignoring event from superseded session")
			return
		}
		s.onEvent(ctx, m.ev)
	case msgReconnect:
		if _, ok := s.pending[m.timer]; !ok {
			return
		}
		delete(s.pending, m.timer)
		s.start(ctx)
	case msgStatus:
		if m.gen != s.gen || !s.connected {
			return
		}
		s.log.Info().Dur("uptime", s.clock.Now().Sub(s.connectedAt).Round(time.Second)).
			Msg("still connected")
		s.startStatus(ctx)
	case msgCancel:
		m.reply <- s.cancelPending()
	}
}

func (s *Supervisor) onEvent(ctx context.Context, ev mcclient.Event) {
	switch ev.Kind {
	case mcclient.EventLogin:
		s.connected = true
		s.connectedAt = s.clock.Now()
		s.log.Info().Str("username", ev.Username).Msg("bot connected")
		s.startStatus(ctx)
	case mcclient.EventSpawn:
		s.log.Info().Msg("bot spawned, staying AFK")
	case mcclient.EventError:
		s.log.Error().Err(ev.Err).Msg("session error")
	case mcclient.EventKicked:
		s.log.Warn().Str("reason", ev.Reason).Dur("retry_in", s.delay).Msg("bot kicked, reconnecting")
		s.schedule(ctx)
	case mcclient.EventEnd:
		s.connected = false
		s.stopStatus()
		s.log.Warn().Dur("retry_in", s.delay).Msg("connection closed, reconnecting")
		s.schedule(ctx)
	}
}

// schedule arms a reconnect after the fixed delay.
func (s *Supervisor) schedule(ctx context.Context) {
	if s.coalesce {
		if n := s.cancelPending(); n > 0 {
			s.log.Debug().Int("cancelled", n).Msg("coalesced pending reconnect")
		}
	}
	s.timerSeq++
	id := s.timerSeq
	s.pending[id] = s.clock.AfterFunc(s.delay, func() {
		s.post(ctx, message{kind: msgReconnect, timer: id})
	})
}

func (s *Supervisor) cancelPending() int {
	n := 0
	for id, t := range s.pending {
		if t.Stop() {
			n++
		}
		delete(s.pending, id)
	}
	return n
}

func (s *Supervisor) startStatus(ctx context.Context) {
	s.stopStatus()
	if s.statusEvery <= 0 {
		return
	}
	gen := s.gen
	s.status = s.clock.AfterFunc(s.statusEvery, func() {
		s.post(ctx, message{kind: msgStatus, gen: gen})
	})
}

func (s *Supervisor) stopStatus() {
	if s.status != nil {
		s.status.Stop()
		s.status = nil
	}
}

func (s *Supervisor) shutdown() {
	s.cancelPending()
	s.stopStatus()
	if s.current != nil {
		_ = s.current.Close()
		s.current = nil
	}
	s.connected = false

	s.mu.Lock()
	s.loop = nil
	s.mu.Unlock()
	s.log.Info().Msg("supervisor stopped")
}
