package udp

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTableOpenAssignsUniqueHandles(t *testing.T) {
	table := NewTable(zap.NewNop())

	seen := make(map[Handle]bool)
	for i := 0; i < 8; i++ {
		h, err := table.Open()
		require.NoError(t, err)
		assert.False(t, seen[h], "handle %d reused", h)
		seen[h] = true
	}
	assert.Equal(t, 8, table.Len())

	for h := range seen {
		assert.NoError(t, table.Close(h))
	}
	assert.Equal(t, 0, table.Len())
}

func TestTableRoundTrip(t *testing.T) {
	receiver, port := newTestReceiver(t)

	table := NewTable(zap.NewNop())
	h, err := table.Open()
	require.NoError(t, err)

	n, err := table.SendTo(h, []byte("ping"), "127.0.0.1", port)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, MTU)
	rn, _, err := receiver.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), buf[:rn])

	require.NoError(t, table.Close(h))
}

func TestTableRecvFrom(t *testing.T) {
	table := NewTable(zap.NewNop())
	h, err := table.Open()
	require.NoError(t, err)
	defer table.Close(h)

	sock, err := table.Get(h)
	require.NoError(t, err)
	local, err := sock.LocalAddr()
	require.NoError(t, err)

	sender, err := net.DialUDP("udp4", nil, &net.UDPAddr{
		IP:   net.IPv4(127, 0, 0, 1),
		Port: int(local.Port),
	})
	require.NoError(t, err)
	defer sender.Close()

	_, err = sender.Write([]byte("hello"))
	require.NoError(t, err)

	require.NoError(t, table.SetTimeout(h, 2*time.Second))
	buf := make([]byte, MTU)
	n, src, err := table.RecvFrom(h, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), buf[:n])
	assert.NotNil(t, src)
	assert.NotZero(t, src.Port)
}

func TestTableUseAfterClose(t *testing.T) {
	table := NewTable(zap.NewNop())
	h, err := table.Open()
	require.NoError(t, err)
	require.NoError(t, table.Close(h))

	_, err = table.SendTo(h, []byte("ping"), "127.0.0.1", 9999)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, _, err = table.RecvFrom(h, make([]byte, MTU))
	assert.ErrorIs(t, err, ErrInvalidHandle)

	assert.ErrorIs(t, table.SetTimeout(h, time.Second), ErrInvalidHandle)

	// double close is rejected, not undefined
	assert.ErrorIs(t, table.Close(h), ErrInvalidHandle)
}

func TestTableUnknownHandle(t *testing.T) {
	table := NewTable(zap.NewNop())

	_, err := table.Get(Handle(42))
	assert.ErrorIs(t, err, ErrInvalidHandle)
}
