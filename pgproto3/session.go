package pgproto3

// Session holds all state for one PostgreSQL wire-protocol conversation
// and is the library's single entry point. It performs no I/O: public
// operations build bytes and dispatch an
// EventSendRequest event carrying them; HandleMessage consumes bytes
// the embedder already read off the wire.
type Session struct {
	user     string
	database string

	msgCount int

	authenticated bool
	passwordMode  PasswordMode
	salt          [4]byte

	backendState byte // zero value until the first ReadyForQuery

	rowDescription  []FieldDescription
	activeStatement *PreparedStatement

	events *dispatcher
}

// NewSession creates a fresh session. Nothing has been sent or
// received yet; the embedder drives the handshake with
// InitialRequest.
func NewSession() *Session {
	return &Session{events: newDispatcher()}
}

// On registers handler for the named event kind, replacing any
// previous registration for the same kind.
func (s *Session) On(kind EventKind, handler Handler) {
	s.events.On(kind, handler)
}

// IsAuthenticated reports whether AuthenticationOk has been received.
func (s *Session) IsAuthenticated() bool { return s.authenticated }

// BackendState returns the most recent transaction status byte
// (TxIdle, TxTransaction, or TxError), or 0 before the first
// ReadyForQuery.
func (s *Session) BackendState() byte { return s.backendState }

// RowDescription returns the current resultset's column metadata, or
// nil if none has been received yet.
func (s *Session) RowDescription() []FieldDescription { return s.rowDescription }

// PasswordMode returns the password form negotiated by the most
// recent AuthenticationRequest (unset until one arrives).
func (s *Session) PasswordMode() PasswordMode { return s.passwordMode }

// sendFrame dispatches framed bytes to the embedder via
// EventSendRequest and advances the message counter.
func (s *Session) sendFrame(b []byte) error {
	s.msgCount++
	s.events.emit(EventSendRequest, SendRequestEvent{Data: b})
	return nil
}

// checkWritable returns ErrInvalidBackendState once a ReadyForQuery
// has reported TxError, until a subsequent ReadyForQuery clears it.
// SimpleQuery, PrepareNamed and PreparedStatement's Bind, Describe,
// DescribePortal and Execute consult it; Sync, Flush, Terminate,
// Finish, SendPassword and the COPY calls do not.
func (s *Session) checkWritable() error {
	if s.backendState == TxError {
		return ErrInvalidBackendState
	}
	return nil
}

// InitialRequest emits StartupMessage. It must be the very first
// frame sent on this session; options may be empty to omit it from
// the startup parameter list.
func (s *Session) InitialRequest(user, database, options string) error {
	if s.msgCount != 0 {
		return ErrStartupNotFirst
	}
	s.user = user
	s.database = database

	payload := buildStartupPayload(user, database, options)
	out := frame(0, payload)
	s.msgCount++
	s.events.emit(EventSendRequest, SendRequestEvent{Data: out})
	return nil
}

// SendPassword responds to a 'password' event with PasswordMessage,
// deriving the MD5-salted form automatically when the server
// negotiated md5 mode.
func (s *Session) SendPassword(password string) error {
	var value string
	switch s.passwordMode {
	case PasswordModeCleartext:
		value = password
	case PasswordModeMD5:
		value = md5Password(s.user, password, s.salt)
	default:
		return ErrNoPasswordMode
	}
	return s.sendFrame(buildPasswordMessage(value))
}

// SimpleQuery emits a Query message. It refuses if the backend's
// transaction state is error.
func (s *Session) SimpleQuery(sql string) error {
	if sql == "" {
		return ErrMissingSQL
	}
	if err := s.checkWritable(); err != nil {
		return err
	}
	return s.sendFrame(buildQuery(sql))
}

// Prepare creates an unnamed prepared statement, immediately emitting
// Parse.
func (s *Session) Prepare(sql string) (*PreparedStatement, error) {
	return s.PrepareNamed("", sql)
}

// PrepareNamed creates a named prepared statement, immediately
// emitting Parse. A non-empty name persists on the server until
// explicitly closed via PreparedStatement.Finish.
func (s *Session) PrepareNamed(name, sql string) (*PreparedStatement, error) {
	if sql == "" {
		return nil, ErrMissingSQL
	}
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	stmt := &PreparedStatement{session: s, name: name, sql: sql}
	if err := s.sendFrame(buildParse(name, sql)); err != nil {
		return nil, err
	}
	return stmt, nil
}

// CopyData sends one chunk of raw COPY-in payload bytes.
func (s *Session) CopyData(data []byte) error {
	return s.sendFrame(buildCopyData(data))
}

// SendCopyData text-encodes one row of cells (nil cell = SQL NULL)
// and sends it as CopyData.
func (s *Session) SendCopyData(cells []*string) error {
	return s.CopyData(EncodeCopyTextRow(cells))
}

// CopyDone signals the end of a successful COPY-in.
func (s *Session) CopyDone() error {
	return s.sendFrame(buildCopyDone())
}

// CopyFail aborts an in-progress COPY-in with an error message.
func (s *Session) CopyFail(message string) error {
	return s.sendFrame(buildCopyFail(message))
}

// Sync emits a Sync message, ending an extended-query round trip and
// clearing a deferred error on the next ReadyForQuery.
func (s *Session) Sync() error {
	return s.sendFrame(buildSync())
}

// Flush emits a Flush message, asking the server to deliver any
// pending response without waiting for Sync.
func (s *Session) Flush() error {
	return s.sendFrame(buildFlush())
}

// Terminate emits Terminate, the graceful end of the session. The
// embedder should close the socket after flushing it.
func (s *Session) Terminate() error {
	return s.sendFrame(buildTerminate())
}

// CancelRequest builds a CancelRequest frame for the backend
// pid/secretKey pair received via the backendkeydata event. Per the
// real protocol this is sent on a brand-new connection, never this
// session's own, so it does not touch session state or go through
// EventSendRequest — callers write it directly.
func CancelRequest(pid, secretKey int32) []byte {
	return buildCancelRequest(pid, secretKey)
}

// HandleMessage decodes one complete frame (type byte, self-inclusive
// length, and payload — exactly what MessageLength/Parser.Next
// extract) and dispatches the resulting event(s). All events raised
// while decoding complete before HandleMessage returns, guaranteeing
// strict wire-order delivery.
func (s *Session) HandleMessage(frameBytes []byte) error {
	if len(frameBytes) < 5 {
		return ErrTruncatedMessage
	}

	declared, ok := MessageLength(frameBytes)
	if !ok {
		return ErrTruncatedMessage
	}
	if len(frameBytes) != 1+declared {
		return ErrTruncatedMessage
	}

	msgType := frameBytes[0]
	payload := frameBytes[5:]

	return s.handleDecoded(msgType, payload)
}

// HandleDecoded dispatches one already-split (type byte, payload) pair,
// skipping HandleMessage's re-parse of the frame header. Embedders that
// extract frames with Parser.Next (which already returns type and
// payload separately) should call this instead of reassembling bytes.
func (s *Session) HandleDecoded(msgType byte, payload []byte) error {
	return s.handleDecoded(msgType, payload)
}

func (s *Session) handleDecoded(msgType byte, payload []byte) error { //nolint:gocyclo // one dispatch table over every backend message type
	switch msgType {
	case backendAuthentication:
		return s.handleAuthentication(payload)

	case backendBackendKeyData:
		pid, key, err := decodeBackendKeyData(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventBackendKeyData, BackendKeyDataEvent{PID: pid, SecretKey: key})

	case backendParameterStatus:
		name, value, err := decodeParameterStatus(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventParameterStatus, ParameterStatusEvent{Name: name, Value: value})

	case backendParameterDescription:
		oids, err := decodeParameterDescription(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventParameterDescription, ParameterDescriptionEvent{OIDs: oids})

	case backendRowDescription:
		fields, err := decodeRowDescription(payload)
		if err != nil {
			return err
		}
		s.rowDescription = fields
		if s.activeStatement != nil {
			s.activeStatement.lastRowDescription = fields
		}
		s.events.emit(EventRowDescription, RowDescriptionEvent{Fields: fields})

	case backendDataRow:
		cells, err := decodeDataRow(payload, s.rowDescription)
		if err != nil {
			return err
		}
		s.events.emit(EventDataRow, DataRowEvent{Cells: cells})

	case backendCommandComplete:
		tag, err := decodeCommandComplete(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventCommandComplete, CommandCompleteEvent{Tag: tag})

	case backendEmptyQueryResponse:
		s.events.emit(EventEmptyQuery, EmptyQueryEvent{})
		s.events.emit(EventReadyForQuery, ReadyForQueryEvent{TxStatus: s.backendState})

	case backendReadyForQuery:
		txStatus, err := decodeReadyForQuery(payload)
		if err != nil {
			return err
		}
		s.backendState = txStatus
		s.events.emit(EventReadyForQuery, ReadyForQueryEvent{TxStatus: txStatus})

	case backendParseComplete:
		s.events.emit(EventParseComplete, ParseCompleteEvent{})

	case backendBindComplete:
		s.events.emit(EventBindComplete, BindCompleteEvent{})

	case backendCloseComplete:
		s.events.emit(EventCloseComplete, CloseCompleteEvent{})

	case backendNoData:
		s.events.emit(EventNoData, NoDataEvent{})

	case backendPortalSuspended:
		s.events.emit(EventPortalSuspended, PortalSuspendedEvent{})

	case backendCopyInResponse, backendCopyOutResponse, backendCopyBothResponse:
		overall, cols, err := decodeCopyResponse(payload)
		if err != nil {
			return err
		}
		evt := CopyResponseEvent{OverallFormat: overall, ColumnFormats: cols}
		switch msgType {
		case backendCopyInResponse:
			s.events.emit(EventCopyInResponse, evt)
		case backendCopyOutResponse:
			s.events.emit(EventCopyOutResponse, evt)
		default:
			s.events.emit(EventCopyBothResponse, evt)
		}

	case backendCopyData:
		s.events.emit(EventCopyData, CopyDataEvent{Data: payload})

	case backendCopyDone:
		s.events.emit(EventCopyDone, CopyDoneEvent{})

	case backendFunctionCallResponse:
		data, isNull, err := decodeFunctionCallResponse(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventFunctionCallResponse, FunctionCallResponseEvent{Null: isNull, Data: data})

	case backendNotificationResponse:
		pid, channel, notifPayload, err := decodeNotificationResponse(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventNotification, NotificationEvent{PID: pid, Channel: channel, Payload: notifPayload})

	case backendNoticeResponse:
		fields, err := decodeNoticeFields(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventNotice, NoticeEvent{Fields: fields})

	case backendErrorResponse:
		fields, err := decodeNoticeFields(payload)
		if err != nil {
			return err
		}
		s.events.emit(EventError, ErrorEvent{Fields: fields})

	default:
		return ErrUnknownMessageType
	}

	return nil
}

func (s *Session) handleAuthentication(payload []byte) error {
	res, err := decodeAuthenticationRequest(payload)
	if err != nil {
		return err
	}

	switch res.kind {
	case EventAuthenticated:
		s.authenticated = true
		s.events.emit(EventAuthenticated, AuthenticatedEvent{})
		s.events.emit(EventRequestReady, RequestReadyEvent{})
	case EventPassword:
		s.passwordMode = res.mode
		s.salt = res.salt
		s.events.emit(EventPassword, PasswordEvent{Mode: res.mode})
	}
	return nil
}
