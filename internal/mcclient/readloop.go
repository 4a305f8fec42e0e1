package mcclient

import (
	"context"
	"errors"
)

func (c *Client) run(ctx context.Context) {
	defer func() {
		c.loggedIn.Store(false)
		c.emit(Event{Kind: EventEnd})
	}()

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	mc := c.newBot()
	c.log.Debug().Str("username", c.opts.Username).Msg("joining server")

	if err := c.join(ctx, mc); err != nil {
		if errors.Is(err, errKicked) || c.closed.Load() {
			return
		}
		c.emit(Event{Kind: EventError, Err: err})
		return
	}

	c.loggedIn.Store(true)
	name := mc.Name
	if name == "" {
		name = c.opts.Username
	}
	c.emit(Event{Kind: EventLogin, Username: name})

	err := mc.HandleGame()
	// a kick or a local Close ends the loop with a read error that says
	// nothing new
	if c.kicked.Load() || c.closed.Load() {
		return
	}
	if err != nil {
		c.emit(Event{Kind: EventError, Err: err})
	}
}
