package udp

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handle is an opaque reference to one open socket in a Table.
type Handle uint32

// Table owns the handle-to-socket mapping for callers that address sockets
// by opaque id rather than holding the Socket directly. Handles come from a
// monotonic counter, so a value is never reused while any socket is open and
// every operation on a closed handle fails with ErrInvalidHandle instead of
// touching somebody else's socket.
type Table struct {
	logger *zap.Logger

	mu      sync.RWMutex
	next    Handle
	sockets map[Handle]*Socket
}

func NewTable(logger *zap.Logger) *Table {
	return &Table{
		logger:  logger,
		sockets: make(map[Handle]*Socket),
	}
}

// Open allocates a new UDP socket on an ephemeral port and registers it.
func (t *Table) Open() (Handle, error) {
	sock, err := NewSocket(t.logger, 0)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	t.next++
	h := t.next
	t.sockets[h] = sock
	t.mu.Unlock()

	t.logger.Debug("socket opened", zap.Uint32("handle", uint32(h)))
	return h, nil
}

// Get resolves a handle to its live socket.
func (t *Table) Get(h Handle) (*Socket, error) {
	t.mu.RLock()
	sock, ok := t.sockets[h]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return sock, nil
}

func (t *Table) SendTo(h Handle, payload []byte, ip string, port uint16) (int, error) {
	sock, err := t.Get(h)
	if err != nil {
		return 0, err
	}
	return sock.SendTo(payload, ip, port)
}

func (t *Table) RecvFrom(h Handle, buf []byte) (int, *Addr, error) {
	sock, err := t.Get(h)
	if err != nil {
		return 0, nil, err
	}
	return sock.RecvFrom(buf)
}

func (t *Table) SetTimeout(h Handle, d time.Duration) error {
	sock, err := t.Get(h)
	if err != nil {
		return err
	}
	sock.SetTimeout(d)
	return nil
}

// Close releases the socket behind h and retires the handle. Unlike the raw
// OS primitive this is safe to call twice: the second call fails with
// ErrInvalidHandle rather than closing a stranger's descriptor. OS-level
// close failures are surfaced.
func (t *Table) Close(h Handle) error {
	t.mu.Lock()
	sock, ok := t.sockets[h]
	if ok {
		delete(t.sockets, h)
	}
	t.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}

	t.logger.Debug("socket closed", zap.Uint32("handle", uint32(h)))
	return sock.Close()
}

// Len reports the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sockets)
}
