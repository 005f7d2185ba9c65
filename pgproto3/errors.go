package pgproto3

import "errors"

// Protocol-fatal errors: the session must not continue past these.
var (
	ErrUnknownMessageType = errors.New("pgproto3: unknown backend message type")
	ErrUnknownNoticeField = errors.New("pgproto3: unknown notice/error field tag")
	ErrUnsupportedAuth    = errors.New("pgproto3: unsupported authentication method")
	ErrRowDescMismatch    = errors.New("pgproto3: data row column count does not match row description")
	ErrStartupNotFirst    = errors.New("pgproto3: startup message must be the first frame sent")
	ErrTruncatedMessage   = errors.New("pgproto3: truncated message")
	ErrMessageTooLarge    = errors.New("pgproto3: message exceeds maximum size")
	ErrNoRowDescription   = errors.New("pgproto3: no row description for current resultset")
)

// Client-misuse errors: synchronous, descriptive, recoverable by the caller.
var (
	ErrMissingSQL          = errors.New("pgproto3: SQL text is required")
	ErrInvalidBackendState = errors.New("pgproto3: invalid backend state")
	ErrNoPasswordMode      = errors.New("pgproto3: no password mode negotiated")
)
