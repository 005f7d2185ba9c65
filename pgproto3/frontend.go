package pgproto3

// This file holds the frontend (client -> server) message builders.
// Each function returns a complete framed byte string; Session wraps
// these with the session's message-counter and first-frame bookkeeping
// (see session.go).

// buildStartupPayload encodes the StartupMessage body: protocol
// version, then (name, value) pairs for the recognized keys {user,
// database, options} in that order (only those defined), terminated
// by a single zero byte. The caller (Session.InitialRequest) wraps
// this in an untyped frame.
func buildStartupPayload(user, database, options string) []byte {
	w := newWriteBuf(64)
	w.int32(ProtocolVersion3)

	if user != "" {
		w.cstring("user")
		w.cstring(user)
	}

	if database != "" {
		w.cstring("database")
		w.cstring(database)
	}

	if options != "" {
		w.cstring("options")
		w.cstring(options)
	}

	w.byte(0)
	return w.Bytes()
}

// buildCancelRequest encodes a CancelRequest: the special version
// code 80877102 followed by the target backend's pid and secret key.
// It is untyped and, per the real protocol, sent on a brand-new
// connection rather than the session being cancelled — callers build
// it directly rather than through Session.
func buildCancelRequest(pid, secretKey int32) []byte {
	w := newWriteBuf(16)
	w.int32(cancelRequestCode)
	w.int32(pid)
	w.int32(secretKey)
	return frame(0, w.Bytes())
}

func buildQuery(sql string) []byte {
	w := newWriteBuf(len(sql) + 1)
	w.cstring(sql)
	return frame(frontendQuery, w.Bytes())
}

// buildParse encodes Parse: statement name (empty = unnamed), SQL,
// and a parameter-type count that is always 0 — the server infers
// parameter types itself.
func buildParse(name, sql string) []byte {
	w := newWriteBuf(len(name) + len(sql) + 4)
	w.cstring(name)
	w.cstring(sql)
	w.int16(0)
	return frame(frontendParse, w.Bytes())
}

// buildBind encodes Bind. paramFormats and resultFormats of length 0
// mean "all text"; a nil entry in params denotes SQL NULL.
func buildBind(portal, statement string, paramFormats []int16, params [][]byte, resultFormats []int16) []byte {
	w := newWriteBuf(64)
	w.cstring(portal)
	w.cstring(statement)

	w.int16(int16(len(paramFormats)))
	for _, f := range paramFormats {
		w.int16(f)
	}

	w.int16(int16(len(params)))
	for _, p := range params {
		w.lengthPrefixedBytes(p)
	}

	w.int16(int16(len(resultFormats)))
	for _, f := range resultFormats {
		w.int16(f)
	}

	return frame(frontendBind, w.Bytes())
}

// describeKind selects whether Describe/Close targets a statement or
// a portal.
type describeKind byte

const (
	DescribeStatement describeKind = 'S'
	DescribePortal     describeKind = 'P'
)

func buildDescribe(kind describeKind, name string) []byte {
	w := newWriteBuf(len(name) + 2)
	w.byte(byte(kind))
	w.cstring(name)
	return frame(frontendDescribe, w.Bytes())
}

// buildClose encodes Close: a kind selector ('S' statement or 'P'
// portal) plus the NUL-terminated name.
func buildClose(kind describeKind, name string) []byte {
	w := newWriteBuf(len(name) + 2)
	w.byte(byte(kind))
	w.cstring(name)
	return frame(frontendClose, w.Bytes())
}

// buildExecute encodes Execute: portal name, max-rows (0 = unlimited).
func buildExecute(portal string, maxRows int32) []byte {
	w := newWriteBuf(len(portal) + 5)
	w.cstring(portal)
	w.int32(maxRows)
	return frame(frontendExecute, w.Bytes())
}

func buildSync() []byte {
	return frame(frontendSync, nil)
}

func buildFlush() []byte {
	return frame(frontendFlush, nil)
}

func buildTerminate() []byte {
	return frame(frontendTerminate, nil)
}

// buildPasswordMessage encodes PasswordMessage. In cleartext mode the
// value is the password unmodified; in md5 mode it is md5Password's
// output. Both forms are NUL-terminated.
func buildPasswordMessage(value string) []byte {
	w := newWriteBuf(len(value) + 1)
	w.cstring(value)
	return frame(frontendPassword, w.Bytes())
}
