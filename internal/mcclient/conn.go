package mcclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Tnze/go-mc/bot"
	"github.com/Tnze/go-mc/bot/basic"
	"github.com/Tnze/go-mc/chat"
	mcnet "github.com/Tnze/go-mc/net"
)

// protocolVersions maps release names onto wire protocol numbers.
var protocolVersions = map[string]int{
	"1.19.4": 762,
	"1.20":   763,
	"1.20.1": 763,
	"1.20.2": 764,
}

// ProtocolFor returns the protocol number for a release name.
func ProtocolFor(version string) (int, bool) {
	p, ok := protocolVersions[strings.TrimSpace(version)]
	return p, ok
}

// go-mc speaks exactly one protocol; a mismatch is logged, not fatal, since
// many servers accept neighbouring versions through proxies.
func (c *Client) checkVersion() {
	want, ok := ProtocolFor(c.opts.Version)
	switch {
	case !ok:
		c.log.Warn().Str("version", c.opts.Version).Int("protocol", bot.ProtocolVersion).
			Msg("unknown game version, using library protocol")
	case want != bot.ProtocolVersion:
		c.log.Warn().Str("version", c.opts.Version).Int("want", want).Int("protocol", bot.ProtocolVersion).
			Msg("game version does not match library protocol")
	}
}

// loginDialer dials like go-mc's default dialer, then puts a deadline on the
// socket so a server that stalls during login cannot hold the session.
type loginDialer struct {
	c       *Client
	timeout time.Duration
}

func (d loginDialer) DialMCContext(ctx context.Context, addr string) (*mcnet.Conn, error) {
	conn, err := (&mcnet.Dialer{}).DialMCContext(ctx, addr)
	if err != nil {
		return nil, err
	}
	_ = conn.Socket.SetDeadline(time.Now().Add(d.timeout))
	d.c.attach(conn.Socket)
	return conn, nil
}

func (c *Client) newBot() *bot.Client {
	mc := bot.NewClient()
	mc.Auth.Name = c.opts.Username
	basic.NewPlayer(mc, basic.DefaultSettings, basic.EventsListener{
		GameStart:  c.onGameStart,
		Disconnect: c.onDisconnect,
	})
	return mc
}

// join performs the handshake and login under the login timeout. A
// disconnect sent during login is reported as a kick and yields errKicked.
func (c *Client) join(ctx context.Context, mc *bot.Client) error {
	err := mc.JoinServerWithOptions(c.opts.Addr(), bot.JoinOptions{
		MCDialer:    loginDialer{c: c, timeout: c.opts.loginTimeout()},
		Context:     ctx,
		NoPublicKey: true,
	})
	if err != nil {
		var de bot.DisconnectErr
		if errors.As(err, &de) {
			c.kick(chat.Message(de))
			return errKicked
		}
		return err
	}

	c.mu.Lock()
	sock := c.socket
	c.mu.Unlock()
	if sock != nil {
		_ = sock.SetDeadline(time.Time{})
	}
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

var errKicked = errors.New("mcclient: kicked")

func (c *Client) kick(reason chat.Message) {
	if c.kicked.Swap(true) {
		return
	}
	c.emit(Event{Kind: EventKicked, Reason: reason.ClearString()})
}

func (c *Client) onGameStart() error {
	c.emit(Event{Kind: EventSpawn})
	return nil
}

func (c *Client) onDisconnect(reason chat.Message) error {
	c.kick(reason)
	return nil
}
