package udp

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/minisock/minisock/pkg/metrics"
	"go.uber.org/zap"
)

const MTU = 9001

// Reader receives one datagram per call. The payload slice is only valid
// until the next read.
type Reader func(addr *Addr, payload []byte)

// Socket is a single unconnected IPv4 UDP endpoint. Every operation is a
// direct blocking call into the OS socket layer; nothing is retried or
// buffered here. Concurrent use of one Socket must be synchronized by the
// caller.
type Socket struct {
	conn *net.UDPConn
	l    *zap.Logger

	// send/receive timeout in nanoseconds, 0 = blocking
	timeout atomic.Int64
}

// NewSocket binds a UDP socket to the given local port. Port 0 picks an
// ephemeral port.
func NewSocket(logger *zap.Logger, port uint16) (*Socket, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSocketCreationFailed, err)
	}

	return &Socket{
		conn: conn,
		l:    logger,
	}, nil
}

func (s *Socket) LocalAddr() (*Addr, error) {
	a := s.conn.LocalAddr()

	switch v := a.(type) {
	case *net.UDPAddr:
		addr := &Addr{IP: make([]byte, len(v.IP))}
		copy(addr.IP, v.IP)
		addr.Port = uint16(v.Port)
		return addr, nil

	default:
		return nil, fmt.Errorf("LocalAddr returned: %#v", a)
	}
}

// SendTo sends payload as one datagram to ip:port. The ip must be a
// dotted-decimal IPv4 literal. Returns the byte count the OS accepted; for
// UDP a short count is as good as a failure, so the error is set whenever
// the count differs from len(payload).
func (s *Socket) SendTo(payload []byte, ip string, port uint16) (int, error) {
	addr, err := ParseEndpoint(ip, port)
	if err != nil {
		return 0, err
	}
	return s.SendToAddr(payload, addr)
}

func (s *Socket) SendToAddr(payload []byte, addr *Addr) (int, error) {
	s.applyDeadline(s.conn.SetWriteDeadline)

	n, err := s.conn.WriteToUDP(payload, &net.UDPAddr{IP: addr.IP, Port: int(addr.Port)})
	if err != nil {
		metrics.Default().SendErrors.Inc()
		return n, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if n != len(payload) {
		metrics.Default().SendErrors.Inc()
		return n, fmt.Errorf("%w: short write (%d of %d bytes)", ErrSendFailed, n, len(payload))
	}

	metrics.Default().DatagramsSent.Inc()
	metrics.Default().BytesSent.Add(float64(n))
	return n, nil
}

// RecvFrom reads one datagram into buf and reports its source address.
func (s *Socket) RecvFrom(buf []byte) (int, *Addr, error) {
	s.applyDeadline(s.conn.SetReadDeadline)

	n, rua, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return n, nil, fmt.Errorf("%w: %w", ErrRecvFailed, err)
	}

	metrics.Default().DatagramsReceived.Inc()
	metrics.Default().BytesReceived.Add(float64(n))
	return n, NewAddr(rua.IP, uint16(rua.Port)), nil
}

// Listen reads datagrams until the socket is closed, handing each one to r.
func (s *Socket) Listen(r Reader) {
	buffer := make([]byte, MTU)
	udpAddr := &Addr{IP: make([]byte, 16)}

	for {
		// Just read one packet at a time
		n, rua, err := s.conn.ReadFromUDP(buffer)
		if err != nil {
			s.l.Debug("udp socket is closed, exiting read loop", zap.Error(err))
			return
		}

		metrics.Default().DatagramsReceived.Inc()
		metrics.Default().BytesReceived.Add(float64(n))

		udpAddr.IP = rua.IP
		udpAddr.Port = uint16(rua.Port)
		r(udpAddr, buffer[:n])
	}
}

// SetTimeout applies d to both the send and receive direction of every
// following operation, overwriting any previous value. Zero restores
// blocking behavior.
func (s *Socket) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Close releases the OS socket. Double close is an error; callers own the
// close-at-most-once rule.
func (s *Socket) Close() error {
	return s.conn.Close()
}

func (s *Socket) applyDeadline(set func(time.Time) error) {
	if d := time.Duration(s.timeout.Load()); d > 0 {
		_ = set(time.Now().Add(d))
	} else {
		_ = set(time.Time{})
	}
}
