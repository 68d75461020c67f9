package udp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEndpoint(t *testing.T) {
	t.Run("ValidLiteral", func(t *testing.T) {
		addr, err := ParseEndpoint("127.0.0.1", 9999)
		assert.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9999", addr.String())
	})

	t.Run("RejectsMalformed", func(t *testing.T) {
		for _, ip := range []string{
			"",
			"localhost",
			"example.com",
			"256.0.0.1",
			"1.2.3",
			"1.2.3.4.5",
			"0x7f.0.0.1",
			"127.000.0.1",
			" 127.0.0.1",
			"::1",
			"fe80::1",
		} {
			_, err := ParseEndpoint(ip, 9999)
			assert.ErrorIs(t, err, ErrInvalidAddressLiteral, "literal %q", ip)
		}
	})
}

func TestAddrCopyEquals(t *testing.T) {
	a, err := ParseEndpoint("192.168.1.10", 4242)
	assert.NoError(t, err)

	b := a.Copy()
	assert.True(t, a.Equals(b))

	b.Port = 4243
	assert.False(t, a.Equals(b))

	var nilAddr *Addr
	assert.True(t, nilAddr.Equals(nil))
	assert.False(t, a.Equals(nil))
	assert.Nil(t, nilAddr.Copy())
}
