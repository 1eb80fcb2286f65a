// Package host implements the accepting side of a Project Neon session:
// the participant that owns client_id 1, assigns IDs to connecting
// clients, and answers pings. A Host talks only to the relay; it never
// addresses a client's transport address directly (see spec.md §4.2's
// routing-by-header-field design).
package host
