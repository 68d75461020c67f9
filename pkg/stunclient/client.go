package stunclient

import (
	"fmt"

	"github.com/minisock/minisock/pkg/transport/udp"
	"github.com/pion/stun"
)

// STUNClient asks a STUN server where this host's datagrams appear to come
// from. Used by the probe command to report the externally visible address.
type STUNClient interface {
	// ExternalAddr returns the server-reflexive address, preferring
	// XOR-MAPPED-ADDRESS over the legacy MAPPED-ADDRESS attribute.
	ExternalAddr() (*udp.Addr, error)

	Close() error
}

var _ STUNClient = &stunClient{}

func NewClient(stunURI string) (STUNClient, error) {
	u, err := stun.ParseURI(stunURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse STUN URI: %w", err)
	}

	conn, err := stun.DialURI(u, &stun.DialConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to dial STUN server: %w", err)
	}

	return &stunClient{conn: conn}, nil
}

type stunClient struct {
	conn *stun.Client
}

func (c *stunClient) ExternalAddr() (*udp.Addr, error) {
	message, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to build STUN request: %w", err)
	}

	var xorAddr stun.XORMappedAddress
	var mappedAddr stun.MappedAddress
	var resultAddr *udp.Addr
	var resultErr error

	processResponse := func(res stun.Event) {
		if res.Error != nil {
			resultErr = res.Error
			return
		}
		if err := xorAddr.GetFrom(res.Message); err == nil {
			resultAddr = &udp.Addr{
				IP:   xorAddr.IP,
				Port: uint16(xorAddr.Port),
			}
		} else if err := mappedAddr.GetFrom(res.Message); err == nil {
			if resultAddr == nil {
				resultAddr = &udp.Addr{
					IP:   mappedAddr.IP,
					Port: uint16(mappedAddr.Port),
				}
			}
		}
	}

	if err = c.conn.Do(message, processResponse); err != nil {
		return nil, fmt.Errorf("failed to get external address: %w", err)
	}

	if resultErr != nil {
		return nil, resultErr
	}

	return resultAddr, nil
}

func (c *stunClient) Close() error {
	return c.conn.Close()
}
