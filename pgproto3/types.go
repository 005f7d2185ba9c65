package pgproto3

// Frontend (client -> server) message type codes.
// StartupMessage, SSLRequest, GSSENCRequest and CancelRequest carry no
// type byte on the wire; they are identified by their payload instead.
const (
	frontendQuery       byte = 'Q'
	frontendParse       byte = 'P'
	frontendBind        byte = 'B'
	frontendDescribe    byte = 'D'
	frontendExecute     byte = 'E'
	frontendClose       byte = 'C'
	frontendSync        byte = 'S'
	frontendFlush       byte = 'H'
	frontendTerminate   byte = 'X'
	frontendCopyData    byte = 'd'
	frontendCopyDone    byte = 'c'
	frontendCopyFail    byte = 'f'
	frontendPassword    byte = 'p'
)

// Backend (server -> client) message type codes.
const (
	backendAuthentication       byte = 'R'
	backendBackendKeyData       byte = 'K'
	backendBindComplete         byte = '2'
	backendCloseComplete        byte = '3'
	backendCommandComplete      byte = 'C'
	backendCopyInResponse       byte = 'G'
	backendCopyOutResponse      byte = 'H'
	backendCopyBothResponse     byte = 'W'
	backendCopyData             byte = 'd'
	backendCopyDone             byte = 'c'
	backendDataRow              byte = 'D'
	backendEmptyQueryResponse   byte = 'I'
	backendErrorResponse        byte = 'E'
	backendFunctionCallResponse byte = 'V'
	backendNoData               byte = 'n'
	backendNoticeResponse        byte = 'N'
	backendNotificationResponse  byte = 'A'
	backendParameterDescription byte = 't'
	backendParameterStatus      byte = 'S'
	backendParseComplete        byte = '1'
	backendPortalSuspended      byte = 's'
	backendReadyForQuery        byte = 'Z'
	backendRowDescription       byte = 'T'
)

// backendMessageNames maps each backend type byte to its protocol
// message name (e.g. "ReadyForQuery"), for diagnostics and for
// EventName(byte).
var backendMessageNames = map[byte]string{
	backendAuthentication:       "AuthenticationRequest",
	backendBackendKeyData:       "BackendKeyData",
	backendBindComplete:         "BindComplete",
	backendCloseComplete:        "CloseComplete",
	backendCommandComplete:      "CommandComplete",
	backendCopyInResponse:       "CopyInResponse",
	backendCopyOutResponse:      "CopyOutResponse",
	backendCopyBothResponse:     "CopyBothResponse",
	backendCopyData:             "CopyData",
	backendCopyDone:             "CopyDone",
	backendDataRow:              "DataRow",
	backendEmptyQueryResponse:   "EmptyQueryResponse",
	backendErrorResponse:        "ErrorResponse",
	backendFunctionCallResponse: "FunctionCallResponse",
	backendNoData:               "NoData",
	backendNoticeResponse:       "NoticeResponse",
	backendNotificationResponse: "NotificationResponse",
	backendParameterDescription: "ParameterDescription",
	backendParameterStatus:      "ParameterStatus",
	backendParseComplete:        "ParseComplete",
	backendPortalSuspended:      "PortalSuspended",
	backendReadyForQuery:        "ReadyForQuery",
	backendRowDescription:       "RowDescription",
}

// EventName returns the backend message name bound to a wire type byte,
// or "" if the byte is not a recognized backend message type.
func EventName(msgType byte) string {
	return backendMessageNames[msgType]
}

// Authentication request sub-codes (payload of an 'R' message).
const (
	authOK                = 0
	authKerberosV5        = 2
	authCleartextPassword = 3
	authMD5Password       = 5
	authSCMCredential     = 6
	authGSS               = 7
	authGSSContinue       = 8
	authSSPI              = 9
)

// Transaction status bytes reported by ReadyForQuery.
const (
	TxIdle        byte = 'I'
	TxTransaction byte = 'T'
	TxError       byte = 'E'
)

// Protocol and special-request version codes. The first frontend
// frame is identified by one of these 4-byte codes instead of a type
// byte; only ProtocolVersion3 and cancelRequestCode are ever actually
// sent by this library. SSLRequest and GSSENCRequest codes are omitted
// since neither TLS nor GSSAPI negotiation is implemented here.
const (
	ProtocolVersion3  int32 = 0x00030000
	cancelRequestCode int32 = 80877102
)

// Notice/error field tags, shared by ErrorResponse and NoticeResponse.
const (
	fieldSeverity         byte = 'S'
	fieldCode             byte = 'C'
	fieldMessage          byte = 'M'
	fieldDetail           byte = 'D'
	fieldHint             byte = 'H'
	fieldPosition         byte = 'P'
	fieldInternalPosition byte = 'p'
	fieldInternalQuery    byte = 'q'
	fieldWhere            byte = 'W'
	fieldFile             byte = 'F'
	fieldLine             byte = 'L'
	fieldRoutine          byte = 'R'
)

var knownNoticeFields = map[byte]bool{
	fieldSeverity: true, fieldCode: true, fieldMessage: true, fieldDetail: true,
	fieldHint: true, fieldPosition: true, fieldInternalPosition: true,
	fieldInternalQuery: true, fieldWhere: true, fieldFile: true, fieldLine: true,
	fieldRoutine: true,
}
