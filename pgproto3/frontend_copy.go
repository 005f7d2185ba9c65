package pgproto3

// buildCopyData encodes CopyData: the raw payload bytes, with no
// framing beyond the outer message frame.
func buildCopyData(data []byte) []byte {
	return frame(frontendCopyData, data)
}

func buildCopyDone() []byte {
	return frame(frontendCopyDone, nil)
}

// buildCopyFail encodes CopyFail: a single NUL-terminated error
// message the client reports to abort an in-progress COPY.
func buildCopyFail(message string) []byte {
	w := newWriteBuf(len(message) + 1)
	w.cstring(message)
	return frame(frontendCopyFail, w.Bytes())
}
