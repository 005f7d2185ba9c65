package pgproto3

// MessageLength peeks at a buffer's first 5 bytes (1-byte type code,
// 4-byte big-endian length) and returns the declared length — which,
// per the wire protocol, counts itself but not the type byte. ok is
// false when fewer than 5 bytes are available yet.
func MessageLength(buf []byte) (length int, ok bool) {
	if len(buf) < 5 {
		return 0, false
	}
	l := int(buf[1])<<24 | int(buf[2])<<16 | int(buf[3])<<8 | int(buf[4])
	return l, true
}

// Parser extracts complete frames out of an arbitrary, possibly
// partial, stream of received bytes. It owns no socket: the embedder
// pushes bytes in with Feed and pulls whole frames out with Next.
type Parser struct {
	buf []byte
}

// NewParser creates an empty incremental frame parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends newly received bytes to the parser's internal buffer.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Next extracts the next complete frame, if one is available. ok is
// false when the buffered bytes don't yet contain a whole frame; the
// partial tail is retained for the next Feed. consumed bytes are
// always fully removed from the internal buffer before Next returns
// true, so partial frames never "leak" into payload.
func (p *Parser) Next() (msgType byte, payload []byte, ok bool, err error) {
	if len(p.buf) < 1 {
		return 0, nil, false, nil
	}

	declared, haveLength := MessageLength(p.buf)
	if !haveLength {
		return 0, nil, false, nil
	}
	if declared < 4 {
		return 0, nil, false, ErrTruncatedMessage
	}
	if declared > MaxMessageSize {
		return 0, nil, false, ErrMessageTooLarge
	}

	total := 1 + declared // type byte + self-inclusive length word + payload
	if len(p.buf) < total {
		return 0, nil, false, nil
	}

	msgType = p.buf[0]
	payload = make([]byte, declared-4)
	copy(payload, p.buf[5:total])

	remaining := len(p.buf) - total
	copy(p.buf, p.buf[total:])
	p.buf = p.buf[:remaining]

	return msgType, payload, true, nil
}

// Pending reports how many unconsumed bytes are currently buffered.
func (p *Parser) Pending() int {
	return len(p.buf)
}

// MaxMessageSize bounds a single message's declared length, guarding
// against a corrupt or hostile length word driving an unbounded
// allocation.
const MaxMessageSize = 1 << 30
