package mem_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/transport/mem"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")
	b := net.Listen("b")
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.SendTo([]byte("hello"), b.LocalAddr()))

	data, from, err := b.ReceiveFrom(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "a", from.String())
}

func TestReceiveNonBlockingNoData(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")
	defer a.Close()

	_, _, err := a.ReceiveFrom(transport.NonBlocking)
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestReceiveTimesOut(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")
	defer a.Close()

	_, _, err := a.ReceiveFrom(20 * time.Millisecond)
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestSendToUnknownAddressIsSilentlyDropped(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")
	defer a.Close()

	assert.NoError(t, a.SendTo([]byte("x"), mem.Addr("nobody")))
}

func TestCloseUnblocksReceiveFrom(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")

	done := make(chan error, 1)
	go func() {
		_, _, err := a.ReceiveFrom(transport.Blocking)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, a.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, transport.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("ReceiveFrom did not unblock after Close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}

func TestFullInboxDropsInsteadOfBlocking(t *testing.T) {
	net := mem.NewNetwork()
	a := net.Listen("a")
	b := net.Listen("b")
	defer a.Close()
	defer b.Close()

	for i := 0; i < 1000; i++ {
		require.NoError(t, a.SendTo([]byte{byte(i)}, b.LocalAddr()))
	}

	_, _, err := b.ReceiveFrom(transport.NonBlocking)
	assert.NoError(t, err)
}

func TestIndependentNetworksDoNotSeeEachOther(t *testing.T) {
	net1 := mem.NewNetwork()
	net2 := mem.NewNetwork()
	a := net1.Listen("a")
	b := net2.Listen("b")
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.SendTo([]byte("x"), mem.Addr("b")))
	_, _, err := b.ReceiveFrom(transport.NonBlocking)
	assert.ErrorIs(t, err, transport.ErrTimeout, "a datagram sent within net1 must not reach a socket bound in net2")
}

var _ transport.Socket = (*mem.Socket)(nil)
