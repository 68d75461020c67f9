package udp

import "errors"

var (
	ErrSocketCreationFailed  = errors.New("socket creation failed")
	ErrSendFailed            = errors.New("send failed")
	ErrRecvFailed            = errors.New("receive failed")
	ErrInvalidHandle         = errors.New("invalid socket handle")
	ErrInvalidAddressLiteral = errors.New("invalid IPv4 address literal")
)
