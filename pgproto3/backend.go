package pgproto3

// This file holds the backend (server -> client) message decoders
// that don't already have a dedicated file (authentication lives in
// auth.go, RowDescription/DataRow in rowdesc.go, the three COPY
// response variants in backend_copy.go). Each decoder takes the
// frame's payload (type byte and length already stripped by the
// parser) and returns a typed result; Session.HandleMessage is the
// only caller and is responsible for dispatching the matching event.

func decodeBackendKeyData(body []byte) (pid, secretKey int32, err error) {
	r := newReadBuf(body)
	if pid, err = r.int32(); err != nil {
		return 0, 0, err
	}
	if secretKey, err = r.int32(); err != nil {
		return 0, 0, err
	}
	return pid, secretKey, nil
}

// decodeParameterStatus reads exactly one (key, value) pair. The wire
// message carries a single pair per frame; a backend announcing
// several changed parameters sends one ParameterStatus frame each.
func decodeParameterStatus(body []byte) (name, value string, err error) {
	r := newReadBuf(body)
	if name, err = r.cstring(); err != nil {
		return "", "", err
	}
	if value, err = r.cstring(); err != nil {
		return "", "", err
	}
	return name, value, nil
}

func decodeCommandComplete(body []byte) (tag string, err error) {
	r := newReadBuf(body)
	return r.cstring()
}

func decodeReadyForQuery(body []byte) (txStatus byte, err error) {
	r := newReadBuf(body)
	return r.byte()
}

// decodeNoticeFields parses the repeated (1-byte tag, NUL-terminated
// string) sequence shared by ErrorResponse and NoticeResponse, until a
// zero tag terminates it. An unrecognized tag is protocol-fatal.
func decodeNoticeFields(body []byte) (NoticeFields, error) {
	r := newReadBuf(body)
	var fields NoticeFields

	for {
		tag, err := r.byte()
		if err != nil {
			return NoticeFields{}, err
		}
		if tag == 0 {
			break
		}

		value, err := r.cstring()
		if err != nil {
			return NoticeFields{}, err
		}

		if !knownNoticeFields[tag] {
			return NoticeFields{}, ErrUnknownNoticeField
		}

		switch tag {
		case fieldSeverity:
			fields.Severity = value
		case fieldCode:
			fields.Code = value
		case fieldMessage:
			fields.Message = value
		case fieldDetail:
			fields.Detail = value
		case fieldHint:
			fields.Hint = value
		case fieldPosition:
			fields.Position = value
		case fieldInternalPosition:
			fields.InternalPosition = value
		case fieldInternalQuery:
			fields.InternalQuery = value
		case fieldWhere:
			fields.Where = value
		case fieldFile:
			fields.File = value
		case fieldLine:
			fields.Line = value
		case fieldRoutine:
			fields.Routine = value
		}
	}

	return fields, nil
}

// decodeNotificationResponse reads NotificationResponse: pid, channel,
// payload. Bound to type byte 'A' as NotificationResponse (the wire
// format's own name for the message, despite the historical misspelling
// surviving in some client libraries).
func decodeNotificationResponse(body []byte) (pid int32, channel, payload string, err error) {
	r := newReadBuf(body)
	if pid, err = r.int32(); err != nil {
		return 0, "", "", err
	}
	if channel, err = r.cstring(); err != nil {
		return 0, "", "", err
	}
	if payload, err = r.cstring(); err != nil {
		return 0, "", "", err
	}
	return pid, channel, payload, nil
}

// decodeParameterDescription reads a prepared statement's inferred
// parameter type OIDs: int16 count, then count x int32 OID.
func decodeParameterDescription(body []byte) ([]int32, error) {
	r := newReadBuf(body)

	count, err := r.int16()
	if err != nil {
		return nil, err
	}

	oids := make([]int32, count)
	for i := range oids {
		oid, err := r.int32()
		if err != nil {
			return nil, err
		}
		oids[i] = oid
	}
	return oids, nil
}

// decodeFunctionCallResponse reads a legacy function call result: a
// length-prefixed byte block, or SQL NULL.
func decodeFunctionCallResponse(body []byte) (data []byte, isNull bool, err error) {
	r := newReadBuf(body)
	return r.lengthPrefixedBytes()
}
