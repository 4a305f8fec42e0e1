// Package bot keeps one Minecraft session alive forever.
//
// A Supervisor builds a session through its Factory, listens to the five
// session events and rebuilds the session a fixed delay after every "kicked"
// or "end". "error" is only logged. There is no backoff and no retry limit.
//
// Lifecycle:
//   - Build with New(cfg, opts...).
//   - Either call Run(ctx) and cancel ctx to stop, or Start() / Stop().
//
// Example:
//
//	s := bot.New(cfg, bot.WithLogger(log))
//	if err := s.Start(); err != nil { log.Fatal().Err(err).Send() }
//	defer s.Stop()
//
// Everything the supervisor owns (current session, pending timers) is
// touched only by its event loop. Session callbacks and timer fires are
// posted to that loop as messages.
//
// A kick is normally followed by "end" for the same connection, so one
// disconnect schedules two reconnects. That is kept as is; the older of the
// two resulting sessions is closed as soon as the newer one is built, and
// events from a superseded session are ignored. WithCoalescedReconnects
// collapses the pair into one reconnect instead.
package bot
