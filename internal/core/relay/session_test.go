package relay

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(s string) net.Addr {
	a, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		panic(err)
	}
	return a
}

func TestRegisterHostMaterializesSession(t *testing.T) {
	tbl := NewTable()
	now := time.Now()

	assert.False(t, tbl.HasHost(1))
	tbl.RegisterHost(1, addr("127.0.0.1:1000"), now)
	assert.True(t, tbl.HasHost(1))

	p, ok := tbl.Participant(1, wireHostID)
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:1000", p.Addr.String())
}

func TestSessionOfFindsRegisteredAddress(t *testing.T) {
	tbl := NewTable()
	now := time.Now()
	a := addr("127.0.0.1:1000")
	tbl.RegisterHost(5, a, now)

	sessionID, ok := tbl.SessionOf(a)
	require.True(t, ok)
	assert.Equal(t, uint32(5), sessionID)

	_, ok = tbl.SessionOf(addr("127.0.0.1:9999"))
	assert.False(t, ok)
}

func TestPutAddsParticipantToExistingSession(t *testing.T) {
	tbl := NewTable()
	now := time.Now()
	tbl.RegisterHost(1, addr("127.0.0.1:1000"), now)
	tbl.Put(1, 2, addr("127.0.0.1:2000"), now)

	p, ok := tbl.Participant(1, 2)
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:2000", p.Addr.String())
	assert.Len(t, tbl.Participants(1), 2)
}

func TestRemoveFreesParticipantAndTearsDownEmptySession(t *testing.T) {
	tbl := NewTable()
	now := time.Now()
	hostAddr := addr("127.0.0.1:1000")
	tbl.RegisterHost(1, hostAddr, now)

	tbl.Remove(1, wireHostID, hostAddr)
	_, ok := tbl.Participant(1, wireHostID)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.SessionCount())

	_, ok = tbl.SessionOf(hostAddr)
	assert.False(t, ok, "removing the last participant must also clear the address reverse-index")
}

func TestRemoveKeepsSessionAliveWithOtherParticipants(t *testing.T) {
	tbl := NewTable()
	now := time.Now()
	hostAddr := addr("127.0.0.1:1000")
	clientAddr := addr("127.0.0.1:2000")
	tbl.RegisterHost(1, hostAddr, now)
	tbl.Put(1, 2, clientAddr, now)

	tbl.Remove(1, 2, clientAddr)
	assert.Equal(t, 1, tbl.SessionCount())
	_, ok := tbl.Participant(1, wireHostID)
	assert.True(t, ok)
}

func TestPendingClientQueueIsFIFO(t *testing.T) {
	tbl := NewTable()

	_, ok := tbl.dequeuePendingClient(1)
	assert.False(t, ok)

	a1, a2 := addr("127.0.0.1:2000"), addr("127.0.0.1:3000")
	tbl.queuePendingClient(1, a1)
	tbl.queuePendingClient(1, a2)

	got1, ok := tbl.dequeuePendingClient(1)
	require.True(t, ok)
	assert.Equal(t, a1.String(), got1.String())

	got2, ok := tbl.dequeuePendingClient(1)
	require.True(t, ok)
	assert.Equal(t, a2.String(), got2.String())

	_, ok = tbl.dequeuePendingClient(1)
	assert.False(t, ok)
}
