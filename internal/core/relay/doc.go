// Package relay implements the stateless forwarding process at the center
// of Project Neon: a process-local table of sessions, each mapping client
// IDs to transport addresses, and a receive-decode-route loop that forwards
// datagrams by header fields alone. The relay never parses payloads and
// keeps no state beyond the session table.
package relay
