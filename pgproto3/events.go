package pgproto3

// EventKind is a closed enumeration over every event this library can
// dispatch to an embedder, in place of a duck-typed "call the method
// named after the event" pattern.
type EventKind int

const (
	EventSendRequest EventKind = iota
	EventAuthenticated
	EventPassword
	EventRequestReady
	EventReadyForQuery
	EventBackendKeyData
	EventParameterStatus
	EventParameterDescription
	EventRowDescription
	EventDataRow
	EventCommandComplete
	EventEmptyQuery
	EventNoData
	EventParseComplete
	EventBindComplete
	EventCloseComplete
	EventPortalSuspended
	EventCopyInResponse
	EventCopyOutResponse
	EventCopyBothResponse
	EventCopyData
	EventCopyDone
	EventCopyFail
	EventNotification
	EventNotice
	EventError
	EventFunctionCallResponse
)

var eventNames = map[EventKind]string{
	EventSendRequest:          "send_request",
	EventAuthenticated:        "authenticated",
	EventPassword:             "password",
	EventRequestReady:         "request_ready",
	EventReadyForQuery:        "ready_for_query",
	EventBackendKeyData:       "backendkeydata",
	EventParameterStatus:      "parameter_status",
	EventParameterDescription: "parameter_description",
	EventRowDescription:       "row_description",
	EventDataRow:              "data_row",
	EventCommandComplete:      "command_complete",
	EventEmptyQuery:           "empty_query",
	EventNoData:               "no_data",
	EventParseComplete:        "parse_complete",
	EventBindComplete:         "bind_complete",
	EventCloseComplete:        "close_complete",
	EventPortalSuspended:      "portal_suspended",
	EventCopyInResponse:       "copy_in_response",
	EventCopyOutResponse:      "copy_out_response",
	EventCopyBothResponse:     "copy_both_response",
	EventCopyData:             "copy_data",
	EventCopyDone:             "copy_done",
	EventCopyFail:             "copy_fail",
	EventNotification:        "notification",
	EventNotice:               "notice",
	EventError:                "error",
	EventFunctionCallResponse: "function_call_response",
}

// String returns the public event name.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Handler receives the payload for one dispatched event. The payload's
// concrete type depends on the EventKind it was registered for; see
// the Event* payload structs in this file.
type Handler func(payload any)

// dispatcher routes named events to at most one registered handler
// each.
type dispatcher struct {
	handlers map[EventKind]Handler
}

func newDispatcher() *dispatcher {
	return &dispatcher{handlers: make(map[EventKind]Handler)}
}

// On registers handler for kind, replacing any previously registered
// handler for the same kind.
func (d *dispatcher) On(kind EventKind, handler Handler) {
	d.handlers[kind] = handler
}

// emit invokes the handler registered for kind, if any. Handlers run
// synchronously and complete before emit returns, so all events raised
// while decoding a single frame fire in strict wire order before
// HandleMessage returns.
func (d *dispatcher) emit(kind EventKind, payload any) {
	if h, ok := d.handlers[kind]; ok {
		h(payload)
	}
}

// --- Event payloads ---

// SendRequestEvent carries bytes the embedder must write to the wire.
type SendRequestEvent struct {
	Data []byte
}

// AuthenticatedEvent signals AuthenticationOk was received.
type AuthenticatedEvent struct{}

// PasswordEvent signals the backend requested a password; the
// negotiated mode is available via Session.PasswordMode.
type PasswordEvent struct {
	Mode PasswordMode
}

// RequestReadyEvent mirrors EmptyQueryResponse's immediate
// ready-for-query follow-up in the source protocol's auth-ok-with-no-
// further-parameters path.
type RequestReadyEvent struct{}

// ReadyForQueryEvent reports the backend transaction status byte.
type ReadyForQueryEvent struct {
	TxStatus byte
}

// BackendKeyDataEvent carries the backend pid/secret key pair needed
// to issue a CancelRequest later.
type BackendKeyDataEvent struct {
	PID       int32
	SecretKey int32
}

// ParameterStatusEvent carries one (name, value) runtime parameter.
type ParameterStatusEvent struct {
	Name  string
	Value string
}

// ParameterDescriptionEvent carries the parameter type OIDs for a
// prepared statement.
type ParameterDescriptionEvent struct {
	OIDs []int32
}

// RowDescriptionEvent carries the newly installed row description.
type RowDescriptionEvent struct {
	Fields []FieldDescription
}

// DataCell is one column of a DataRow: either Null, or Data alongside
// the FieldDescription it was shaped by.
type DataCell struct {
	Null        bool
	Data        []byte
	Description *FieldDescription
}

// DataRowEvent carries one resultset row.
type DataRowEvent struct {
	Cells []DataCell
}

// CommandCompleteEvent carries the command tag (e.g. "SELECT 1").
type CommandCompleteEvent struct {
	Tag string
}

// EmptyQueryEvent signals the server received an empty query string.
type EmptyQueryEvent struct{}

// NoDataEvent signals a Describe found no row description.
type NoDataEvent struct{}

// ParseCompleteEvent signals a Parse succeeded.
type ParseCompleteEvent struct{}

// BindCompleteEvent signals a Bind succeeded.
type BindCompleteEvent struct{}

// CloseCompleteEvent signals a Close succeeded.
type CloseCompleteEvent struct{}

// PortalSuspendedEvent signals Execute's row limit was reached before
// the portal was exhausted.
type PortalSuspendedEvent struct{}

// CopyResponseEvent carries the overall and per-column format codes
// for CopyInResponse/CopyOutResponse/CopyBothResponse.
type CopyResponseEvent struct {
	OverallFormat  int8
	ColumnFormats  []int16
}

// CopyDataEvent carries one chunk of COPY payload bytes.
type CopyDataEvent struct {
	Data []byte
}

// CopyDoneEvent signals the COPY sub-protocol completed.
type CopyDoneEvent struct{}

// NotificationEvent carries a LISTEN/NOTIFY payload.
type NotificationEvent struct {
	PID     int32
	Channel string
	Payload string
}

// NoticeFields is the decoded field-tag -> string map shared by
// ErrorResponse and NoticeResponse.
type NoticeFields struct {
	Severity         string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         string
	InternalPosition string
	InternalQuery    string
	Where            string
	File             string
	Line             string
	Routine          string
}

// NoticeEvent carries a decoded NoticeResponse.
type NoticeEvent struct {
	Fields NoticeFields
}

// ErrorEvent carries a decoded ErrorResponse. It is not fatal to the
// library — the caller decides whether to close the session.
type ErrorEvent struct {
	Fields NoticeFields
}

// FunctionCallResponseEvent carries the raw result of a legacy
// function call.
type FunctionCallResponseEvent struct {
	Null bool
	Data []byte
}
