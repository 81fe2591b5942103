package feed

import "errors"

// Sentinel kinds for feed decoding errors.
var (
	ErrDecode      = errors.New("decode feed")
	ErrEncode      = errors.New("encode feed")
	ErrUnknownKind = errors.New("unknown event kind")
	ErrMissingData = errors.New("missing event field")
)
