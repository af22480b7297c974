package ws

import "errors"

var (
	// ErrProtocolViolation covers malformed payloads, missing required
	// fields, unknown discriminants and a wrong first frame. It always
	// closes the connection; there is no retry.
	ErrProtocolViolation = errors.New("protocol violation")

	// errBanned refuses a handshake for a banned identity. The connection
	// closes before any session exists.
	errBanned = errors.New("identity is banned")
)
