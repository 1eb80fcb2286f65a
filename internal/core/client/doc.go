// Package client implements the connecting side of a Project Neon
// session: it registers with a session's host through the relay, tracks
// outstanding pings, and exposes a cooperative, non-blocking
// ProcessPackets drain so the embedder's own tick loop stays in control
// of when callbacks run (spec.md §4.4, §9).
package client
