package pgproto3

// decodeCopyResponse parses the shared layout of CopyInResponse,
// CopyOutResponse and CopyBothResponse: int8 overall format, int16
// column count, then that many int16 per-column format codes.
func decodeCopyResponse(body []byte) (overallFormat int8, columnFormats []int16, err error) {
	r := newReadBuf(body)

	b, err := r.byte()
	if err != nil {
		return 0, nil, err
	}
	overallFormat = int8(b)

	count, err := r.int16()
	if err != nil {
		return 0, nil, err
	}

	columnFormats = make([]int16, count)
	for i := range columnFormats {
		f, err := r.int16()
		if err != nil {
			return 0, nil, err
		}
		columnFormats[i] = f
	}

	return overallFormat, columnFormats, nil
}
