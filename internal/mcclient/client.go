package mcclient

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLoginTimeout bounds the handshake and login exchange. The play
// phase is covered by the server's keep-alive instead.
const DefaultLoginTimeout = 30 * time.Second

var (
	ErrAlreadyStarted = errors.New("mcclient: session already started")
	ErrClosed         = errors.New("mcclient: session closed")
)

// Options describe where and as whom a session connects.
type Options struct {
	Host     string
	Port     int
	Username string
	Version  string

	// LoginTimeout defaults to DefaultLoginTimeout when zero.
	LoginTimeout time.Duration
}

// Addr returns host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

func (o Options) loginTimeout() time.Duration {
	if o.LoginTimeout > 0 {
		return o.LoginTimeout
	}
	return DefaultLoginTimeout
}

type Client struct {
	opts Options
	log  zerolog.Logger

	mu       sync.Mutex
	handlers map[EventKind][]Handler
	socket   net.Conn

	started  atomic.Bool
	closed   atomic.Bool
	kicked   atomic.Bool
	loggedIn atomic.Bool
}

func New(opts Options, log zerolog.Logger) *Client {
	return &Client{
		opts:     opts,
		log:      log.With().Str("component", "mcclient").Str("addr", opts.Addr()).Logger(),
		handlers: make(map[EventKind][]Handler),
	}
}

// On subscribes fn to a named event. Subscriptions made after Connect may
// miss events that already fired.
func (c *Client) On(kind EventKind, fn Handler) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.handlers[kind] = append(c.handlers[kind], fn)
	c.mu.Unlock()
}

// Connect starts the join and the packet loop in the background and returns
// immediately. Cancelling ctx closes the session.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	c.checkVersion()
	go c.run(ctx)
	return nil
}

// Close drops the connection, whether or not the login finished. The
// session still emits "end" once its loop notices. Close is safe to call
// more than once and before Connect.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.mu.Lock()
	sock := c.socket
	c.mu.Unlock()
	if sock != nil {
		return sock.Close()
	}
	return nil
}

// IsConnected reports whether the server accepted the login and the
// session has not ended.
func (c *Client) IsConnected() bool {
	return c.loggedIn.Load() && !c.closed.Load()
}

// attach records the dialed socket so Close can reach it. A Close that ran
// before the dial finished closes the socket right away.
func (c *Client) attach(sock net.Conn) {
	c.mu.Lock()
	c.socket = sock
	c.mu.Unlock()
	if c.closed.Load() {
		_ = sock.Close()
	}
}

func (c *Client) emit(ev Event) {
	c.mu.Lock()
	hs := append([]Handler(nil), c.handlers[ev.Kind]...)
	c.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}
