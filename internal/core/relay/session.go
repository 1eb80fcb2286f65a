package relay

import (
	"net"
	"sync"
	"time"
)

// Participant is one entry in a session's routing table: the transport
// address a client_id is currently reachable at, and when it was last seen.
type Participant struct {
	Addr     net.Addr
	LastSeen time.Time
}

type session struct {
	mu           sync.RWMutex
	participants map[uint8]*Participant
}

func newSession() *session {
	return &session{participants: make(map[uint8]*Participant)}
}

func (s *session) hasHost() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.participants[wireHostID]
	return ok
}

func (s *session) put(clientID uint8, addr net.Addr, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[clientID] = &Participant{Addr: addr, LastSeen: now}
}

func (s *session) get(clientID uint8) (*Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[clientID]
	return p, ok
}

func (s *session) remove(clientID uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, clientID)
}

// snapshot returns a copy of the participant map, safe to iterate without
// holding the session lock (needed while forwarding, which may block on
// socket writes).
func (s *session) snapshot() map[uint8]*Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint8]*Participant, len(s.participants))
	for id, p := range s.participants {
		out[id] = p
	}
	return out
}

func (s *session) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

// wireHostID mirrors wire.HostClientID; kept local to avoid every session
// method importing pkg/wire just for one constant.
const wireHostID uint8 = 1

// Table is the relay's session_id → session_table mapping (spec.md §3, §4.2).
// All state is process-local; a Table is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	sessions map[uint32]*session
	byAddr   map[string]uint32   // sender address string -> session_id
	pending  map[uint32][]net.Addr // session_id -> FIFO of clients awaiting an assigned ID
}

// NewTable creates an empty session table.
func NewTable() *Table {
	return &Table{
		sessions: make(map[uint32]*session),
		byAddr:   make(map[string]uint32),
		pending:  make(map[uint32][]net.Addr),
	}
}

// queuePendingClient records addr as having asked to join sessionID but not
// yet having an assigned client_id. The host's reply names the new ID but
// not the address it belongs to (the wire protocol has no room for that);
// the relay bridges the gap by promoting the oldest queued address the
// first time a destination_id with no participant yet is forwarded from
// that session's host. This relies on the host processing ConnectRequests
// one at a time and replying before accepting the next (true under the
// single-threaded host model in spec.md §5), so the queue stays ordered.
func (t *Table) queuePendingClient(sessionID uint32, addr net.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[sessionID] = append(t.pending[sessionID], addr)
}

// dequeuePendingClient pops the oldest address queued for sessionID.
func (t *Table) dequeuePendingClient(sessionID uint32) (net.Addr, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	q := t.pending[sessionID]
	if len(q) == 0 {
		return nil, false
	}
	addr := q[0]
	if len(q) == 1 {
		delete(t.pending, sessionID)
	} else {
		t.pending[sessionID] = q[1:]
	}
	return addr, true
}

// HasHost reports whether sessionID already has a registered host
// (client_id 1).
func (t *Table) HasHost(sessionID uint32) bool {
	t.mu.RLock()
	s, ok := t.sessions[sessionID]
	t.mu.RUnlock()
	if !ok {
		return false
	}
	return s.hasHost()
}

// RegisterHost records addr as the host (client_id 1) of sessionID,
// materializing the session if this is its first participant.
func (t *Table) RegisterHost(sessionID uint32, addr net.Addr, now time.Time) {
	t.put(sessionID, wireHostID, addr, now)
}

// Put records addr under clientID within sessionID, materializing the
// session on first use.
func (t *Table) Put(sessionID uint32, clientID uint8, addr net.Addr, now time.Time) {
	t.put(sessionID, clientID, addr, now)
}

func (t *Table) put(sessionID uint32, clientID uint8, addr net.Addr, now time.Time) {
	t.mu.Lock()
	s, ok := t.sessions[sessionID]
	if !ok {
		s = newSession()
		t.sessions[sessionID] = s
	}
	t.byAddr[addr.String()] = sessionID
	t.mu.Unlock()

	s.put(clientID, addr, now)
}

// SessionOf returns the session the given transport address is registered
// in, per spec.md §4.2's "first session in which the sender's transport
// address is registered" lookup.
func (t *Table) SessionOf(addr net.Addr) (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byAddr[addr.String()]
	return id, ok
}

// Participant looks up clientID within sessionID.
func (t *Table) Participant(sessionID uint32, clientID uint8) (*Participant, bool) {
	t.mu.RLock()
	s, ok := t.sessions[sessionID]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.get(clientID)
}

// Participants returns a snapshot of every participant in sessionID.
func (t *Table) Participants(sessionID uint32) map[uint8]*Participant {
	t.mu.RLock()
	s, ok := t.sessions[sessionID]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.snapshot()
}

// Remove deletes clientID from sessionID, freeing the session entirely (and
// its address-reuse mapping) once the host is removed or it has no
// participants left, per spec.md §3's "torn down when the host disconnects
// or all participants have been pruned" lifecycle.
func (t *Table) Remove(sessionID uint32, clientID uint8, addr net.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	s.remove(clientID)
	delete(t.byAddr, addr.String())

	if clientID == wireHostID || s.size() == 0 {
		for _, p := range s.snapshot() {
			if t.byAddr[p.Addr.String()] == sessionID {
				delete(t.byAddr, p.Addr.String())
			}
		}
		delete(t.sessions, sessionID)
		delete(t.pending, sessionID)
	}
}

// SessionCount returns the number of materialized sessions, for metrics.
func (t *Table) SessionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}
