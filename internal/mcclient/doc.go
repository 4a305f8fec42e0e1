// Package mcclient wraps the go-mc protocol client in a session that reports
// its lifecycle as five named events:
//
//   - login: the server accepted the handshake (Event.Username is set);
//   - spawn: the player joined the world;
//   - error: a transport or protocol failure (Event.Err is set);
//   - kicked: the server forced a disconnect (Event.Reason is set);
//   - end: the connection is gone, for whatever reason.
//
// "end" is always the last event of a session and fires exactly once. A kick
// is followed by "end"; a failed join is reported as "error" then "end".
//
// Example:
//
//	c := mcclient.New(mcclient.Options{Host: "localhost", Port: 25565, Username: "AFK_Bot", Version: "1.20.1"}, log)
//	c.On(mcclient.EventKicked, func(ev mcclient.Event) { log.Info().Str("reason", ev.Reason).Msg("kicked") })
//	if err := c.Connect(ctx); err != nil { ... }
//	defer c.Close()
//
// A Client is single use: once "end" has fired, build a new one.
package mcclient
