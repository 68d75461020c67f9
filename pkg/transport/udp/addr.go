package udp

import (
	"fmt"
	"net"
	"net/netip"
)

type Addr struct {
	IP   net.IP
	Port uint16
}

func NewAddr(ip net.IP, port uint16) *Addr {
	addr := Addr{IP: make([]byte, net.IPv6len), Port: port}
	copy(addr.IP, ip.To16())
	return &addr
}

// ParseEndpoint builds an Addr from a dotted-decimal IPv4 literal. Anything
// else is rejected: no DNS names, no octal or shorthand forms. The C
// inet_addr primitive this replaces would quietly map unparsable input to a
// wildcard address, so validation happens here, before any syscall.
func ParseEndpoint(ip string, port uint16) (*Addr, error) {
	a, err := netip.ParseAddr(ip)
	if err != nil || !a.Is4() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddressLiteral, ip)
	}
	return NewAddr(a.AsSlice(), port), nil
}

func (a *Addr) Network() string {
	return "udp"
}

func (a *Addr) String() string {
	return fmt.Sprintf("%s:%d", a.IP.String(), a.Port)
}

func (a *Addr) NetAddr() net.Addr {
	return &net.UDPAddr{
		IP:   a.IP,
		Port: int(a.Port),
	}
}

func (a *Addr) Copy() *Addr {
	if a == nil {
		return nil
	}

	nu := Addr{
		Port: a.Port,
		IP:   make(net.IP, len(a.IP)),
	}

	copy(nu.IP, a.IP)
	return &nu
}

func (a *Addr) Equals(t *Addr) bool {
	if t == nil || a == nil {
		return t == nil && a == nil
	}
	return a.IP.Equal(t.IP) && a.Port == t.Port
}
