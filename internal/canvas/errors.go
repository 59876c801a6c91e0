package canvas

import "errors"

// Configuration errors. These indicate a caller bug and are the only errors
// the engine returns; stale ids and indexes are silently ignored instead.
var (
	ErrUnknownLayout         = errors.New("unknown layout strategy")
	ErrUnknownConnectionType = errors.New("unknown connection type")
)
