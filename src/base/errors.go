package base

import "errors"

var (
	ErrEngineUnavailable = errors.New("engine unavailable")
	ErrIllegalMove       = errors.New("illegal move")
	ErrMalformedPGN      = errors.New("malformed pgn")
	ErrMalformedFEN      = errors.New("malformed fen")
)
