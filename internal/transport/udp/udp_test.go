package udp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/transport/udp"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	a, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()

	b, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.SendTo([]byte("hello"), b.LocalAddr()))

	data, from, err := b.ReceiveFrom(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, a.LocalAddr().String(), from.String())
}

func TestReceiveNonBlockingNoData(t *testing.T) {
	a, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()

	_, _, err = a.ReceiveFrom(transport.NonBlocking)
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestReceiveTimesOut(t *testing.T) {
	a, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()

	_, _, err = a.ReceiveFrom(20 * time.Millisecond)
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestLocalAddrIsBound(t *testing.T) {
	a, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer a.Close()

	assert.NotEmpty(t, a.LocalAddr().String())
}

func TestSendAfterCloseErrors(t *testing.T) {
	a, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)

	b, err := udp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Close())
	assert.Error(t, a.SendTo([]byte("x"), b.LocalAddr()))
}

var _ transport.Socket = (*udp.Socket)(nil)
