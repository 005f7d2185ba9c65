package pgproto3

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// newTestSession wires a Session so Build*/Send* calls can be observed
// by capturing whatever bytes EventSendRequest carries.
func newTestSession(t *testing.T) (*Session, *[][]byte) {
	t.Helper()
	sent := &[][]byte{}
	s := NewSession()
	s.On(EventSendRequest, func(payload any) {
		*sent = append(*sent, payload.(SendRequestEvent).Data)
	})
	return s, sent
}

func TestSimpleQueryFrame(t *testing.T) {
	s, sent := newTestSession(t)
	s.msgCount = 1 // pretend startup already happened

	if err := s.SimpleQuery("select 1"); err != nil {
		t.Fatalf("SimpleQuery: %v", err)
	}

	want := []byte{'Q', 0, 0, 0, 0x0d, 's', 'e', 'l', 'e', 'c', 't', ' ', '1', 0}
	if !bytes.Equal((*sent)[0], want) {
		t.Errorf("frame: got % x, want % x", (*sent)[0], want)
	}
}

func TestSimpleQueryRejectsEmpty(t *testing.T) {
	s, _ := newTestSession(t)
	s.msgCount = 1
	if err := s.SimpleQuery(""); err != ErrMissingSQL {
		t.Errorf("got %v, want ErrMissingSQL", err)
	}
}

func TestSimpleQueryRejectsOnBackendError(t *testing.T) {
	s, _ := newTestSession(t)
	s.msgCount = 1
	s.backendState = TxError
	if err := s.SimpleQuery("select 1"); err != ErrInvalidBackendState {
		t.Errorf("got %v, want ErrInvalidBackendState", err)
	}
}

func TestStartupMessageFirstFrameUntyped(t *testing.T) {
	s, sent := newTestSession(t)

	if err := s.InitialRequest("alice", "mydb", ""); err != nil {
		t.Fatalf("InitialRequest: %v", err)
	}

	out := (*sent)[0]
	declaredLength := int(out[0])<<24 | int(out[1])<<16 | int(out[2])<<8 | int(out[3])
	if declaredLength != len(out) {
		t.Errorf("untyped length: got %d, want %d", declaredLength, len(out))
	}

	if err := s.InitialRequest("alice", "mydb", ""); err != ErrStartupNotFirst {
		t.Errorf("second InitialRequest: got %v, want ErrStartupNotFirst", err)
	}
}

func TestMD5PasswordDerivation(t *testing.T) {
	// password "secret", user "alice", salt 0x01020304.
	salt := [4]byte{0x01, 0x02, 0x03, 0x04}
	got := md5Password("alice", "secret", salt)

	if got[:3] != "md5" {
		t.Fatalf("got %q, want md5-prefixed", got)
	}
	if len(got) != 35 {
		t.Fatalf("length: got %d, want 35", len(got))
	}
	if _, err := hex.DecodeString(got[3:]); err != nil {
		t.Fatalf("suffix is not valid hex: %v", err)
	}
}

func TestHandshakeMD5Scenario(t *testing.T) {
	// AuthenticationMD5Password: R 0000000c 00000005 de ad be ef
	s, sent := newTestSession(t)
	s.msgCount = 1
	s.user = "alice"

	authPayload := append([]byte{0, 0, 0, 5}, 0xde, 0xad, 0xbe, 0xef)
	authFrame := frame(backendAuthentication, authPayload)

	if err := s.HandleMessage(authFrame); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if s.PasswordMode() != PasswordModeMD5 {
		t.Fatalf("PasswordMode: got %v, want md5", s.PasswordMode())
	}

	if err := s.SendPassword("secret"); err != nil {
		t.Fatalf("SendPassword: %v", err)
	}

	out := (*sent)[0]
	if out[0] != 'p' {
		t.Fatalf("type byte: got %c, want p", out[0])
	}
	payload := out[5:]
	if !bytes.HasPrefix(payload, []byte("md5")) {
		t.Fatalf("payload should start with md5, got %q", payload)
	}
	// "md5" + 32 hex chars + NUL = 36 bytes.
	if len(payload) != 36 {
		t.Errorf("payload length: got %d, want 36", len(payload))
	}
}

func TestRowDescriptionDataRowRoundTrip(t *testing.T) {
	s, _ := newTestSession(t)

	var gotRowDesc RowDescriptionEvent
	var gotDataRow DataRowEvent
	s.On(EventRowDescription, func(p any) { gotRowDesc = p.(RowDescriptionEvent) })
	s.On(EventDataRow, func(p any) { gotDataRow = p.(DataRowEvent) })

	rd := newWriteBuf(32)
	rd.int16(1)
	rd.cstring("n")
	rd.int32(0)
	rd.int16(0)
	rd.int32(23)
	rd.int16(4)
	rd.int32(-1)
	rd.int16(0)
	if err := s.HandleMessage(frame(backendRowDescription, rd.Bytes())); err != nil {
		t.Fatalf("RowDescription: %v", err)
	}
	if len(gotRowDesc.Fields) != 1 || gotRowDesc.Fields[0].Name != "n" {
		t.Fatalf("row description: got %+v", gotRowDesc)
	}

	dr := newWriteBuf(16)
	dr.int16(1)
	dr.lengthPrefixedBytes([]byte{0x31})
	if err := s.HandleMessage(frame(backendDataRow, dr.Bytes())); err != nil {
		t.Fatalf("DataRow: %v", err)
	}
	if len(gotDataRow.Cells) != 1 {
		t.Fatalf("data row: got %d cells, want 1", len(gotDataRow.Cells))
	}
	cell := gotDataRow.Cells[0]
	if cell.Null || !bytes.Equal(cell.Data, []byte{0x31}) {
		t.Errorf("cell: got %+v", cell)
	}
	if cell.Description.Name != "n" {
		t.Errorf("cell description: got %q, want n", cell.Description.Name)
	}
}

func TestDataRowColumnCountMismatchIsFatal(t *testing.T) {
	s, _ := newTestSession(t)

	rd := newWriteBuf(32)
	rd.int16(1)
	rd.cstring("n")
	rd.int32(0)
	rd.int16(0)
	rd.int32(23)
	rd.int16(4)
	rd.int32(-1)
	rd.int16(0)
	if err := s.HandleMessage(frame(backendRowDescription, rd.Bytes())); err != nil {
		t.Fatalf("RowDescription: %v", err)
	}

	dr := newWriteBuf(16)
	dr.int16(2) // disagrees with the 1-column row description above
	dr.lengthPrefixedBytes([]byte{1})
	dr.lengthPrefixedBytes([]byte{2})

	if err := s.HandleMessage(frame(backendDataRow, dr.Bytes())); err != ErrRowDescMismatch {
		t.Errorf("got %v, want ErrRowDescMismatch", err)
	}
}

func TestDataRowBeforeRowDescriptionIsFatal(t *testing.T) {
	s, _ := newTestSession(t)

	dr := newWriteBuf(8)
	dr.int16(1)
	dr.lengthPrefixedBytes([]byte{1})

	if err := s.HandleMessage(frame(backendDataRow, dr.Bytes())); err != ErrNoRowDescription {
		t.Errorf("got %v, want ErrNoRowDescription", err)
	}
}

func TestEmptyQueryEmitsBothEvents(t *testing.T) {
	s, _ := newTestSession(t)

	var events []string
	s.On(EventEmptyQuery, func(any) { events = append(events, "empty_query") })
	s.On(EventReadyForQuery, func(any) { events = append(events, "ready_for_query") })

	if err := s.HandleMessage(frame(backendEmptyQueryResponse, nil)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	want := []string{"empty_query", "ready_for_query"}
	if len(events) != 2 || events[0] != want[0] || events[1] != want[1] {
		t.Errorf("events: got %v, want %v", events, want)
	}
}

func TestErrorResponseDecode(t *testing.T) {
	s, _ := newTestSession(t)

	var got ErrorEvent
	s.On(EventError, func(p any) { got = p.(ErrorEvent) })

	body := newWriteBuf(64)
	body.byte(fieldSeverity)
	body.cstring("ERROR")
	body.byte(fieldCode)
	body.cstring("42P01")
	body.byte(fieldMessage)
	body.cstring(`relation "x" does not exist`)
	body.byte(0)

	if err := s.HandleMessage(frame(backendErrorResponse, body.Bytes())); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if got.Fields.Severity != "ERROR" || got.Fields.Code != "42P01" ||
		got.Fields.Message != `relation "x" does not exist` {
		t.Errorf("fields: got %+v", got.Fields)
	}
}

func TestErrorResponseUnknownTagIsFatal(t *testing.T) {
	s, _ := newTestSession(t)

	body := newWriteBuf(16)
	body.byte('Z') // not a recognized notice field tag
	body.cstring("x")
	body.byte(0)

	if err := s.HandleMessage(frame(backendErrorResponse, body.Bytes())); err != ErrUnknownNoticeField {
		t.Errorf("got %v, want ErrUnknownNoticeField", err)
	}
}

func TestUnknownMessageTypeIsFatal(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.HandleMessage(frame('~', nil)); err != ErrUnknownMessageType {
		t.Errorf("got %v, want ErrUnknownMessageType", err)
	}
}

func TestCopyTextEncoding(t *testing.T) {
	got := EncodeCopyTextRow([]*string{Str("a"), nil, Str("b\tc")})
	want := []byte("a\t\\N\tb\\tc\n")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCopyTextEscapesInOrder(t *testing.T) {
	got := EncodeCopyTextRow([]*string{Str("back\\slash")})
	want := []byte("back\\\\slash\n")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSendCopyData(t *testing.T) {
	s, sent := newTestSession(t)
	s.msgCount = 1

	if err := s.SendCopyData([]*string{Str("a"), nil, Str("b\tc")}); err != nil {
		t.Fatalf("SendCopyData: %v", err)
	}

	out := (*sent)[0]
	if out[0] != 'd' {
		t.Fatalf("type byte: got %c, want d", out[0])
	}
	if !bytes.Equal(out[5:], []byte("a\t\\N\tb\\tc\n")) {
		t.Errorf("payload: got %q", out[5:])
	}
}

func TestPreparedStatementLifecycle(t *testing.T) {
	s, sent := newTestSession(t)
	s.msgCount = 1

	stmt, err := s.PrepareNamed("s1", "select $1::int")
	if err != nil {
		t.Fatalf("PrepareNamed: %v", err)
	}
	if (*sent)[0][0] != 'P' {
		t.Fatalf("Parse type byte: got %c", (*sent)[0][0])
	}

	if err := stmt.Bind("", [][]byte{[]byte("1")}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if (*sent)[1][0] != 'B' {
		t.Fatalf("Bind type byte: got %c", (*sent)[1][0])
	}

	if err := stmt.Execute("", 0); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if (*sent)[2][0] != 'E' {
		t.Fatalf("Execute type byte: got %c", (*sent)[2][0])
	}

	if err := stmt.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if (*sent)[3][0] != 'C' { // Close, since the statement is named
		t.Fatalf("Finish Close type byte: got %c", (*sent)[3][0])
	}
	if (*sent)[4][0] != 'S' {
		t.Fatalf("Finish Sync type byte: got %c", (*sent)[4][0])
	}
}

func TestPreparedStatementRejectsOnBackendError(t *testing.T) {
	s, _ := newTestSession(t)
	s.msgCount = 1
	s.backendState = TxError

	if _, err := s.Prepare("select 1"); err != ErrInvalidBackendState {
		t.Errorf("got %v, want ErrInvalidBackendState", err)
	}
}

func TestPreparedStatementExtendedQueryRejectsOnBackendError(t *testing.T) {
	s, _ := newTestSession(t)
	s.msgCount = 1

	stmt, err := s.Prepare("select 1")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	s.backendState = TxError

	if err := stmt.Bind("", nil); err != ErrInvalidBackendState {
		t.Errorf("Bind: got %v, want ErrInvalidBackendState", err)
	}
	if err := stmt.Describe(); err != ErrInvalidBackendState {
		t.Errorf("Describe: got %v, want ErrInvalidBackendState", err)
	}
	if err := stmt.DescribePortal(""); err != ErrInvalidBackendState {
		t.Errorf("DescribePortal: got %v, want ErrInvalidBackendState", err)
	}
	if err := stmt.Execute("", 0); err != ErrInvalidBackendState {
		t.Errorf("Execute: got %v, want ErrInvalidBackendState", err)
	}
}

func TestBuilderRoundTrips(t *testing.T) {
	// Query
	qf := buildQuery("select 1")
	if qf[0] != 'Q' {
		t.Fatalf("Query type byte: got %c", qf[0])
	}
	r := newReadBuf(qf[5:])
	sql, _ := r.cstring()
	if sql != "select 1" {
		t.Errorf("Query round trip: got %q", sql)
	}

	// Parse
	pf := buildParse("st1", "select $1")
	r = newReadBuf(pf[5:])
	name, _ := r.cstring()
	sqlText, _ := r.cstring()
	paramCount, _ := r.int16()
	if name != "st1" || sqlText != "select $1" || paramCount != 0 {
		t.Errorf("Parse round trip: name=%q sql=%q paramCount=%d", name, sqlText, paramCount)
	}

	// Bind, with one null and one non-null parameter
	bf := buildBind("portal1", "st1", nil, [][]byte{[]byte("x"), nil}, nil)
	r = newReadBuf(bf[5:])
	portal, _ := r.cstring()
	stmt, _ := r.cstring()
	formatCount, _ := r.int16()
	paramN, _ := r.int16()
	v1, null1, _ := r.lengthPrefixedBytes()
	v2, null2, _ := r.lengthPrefixedBytes()
	if portal != "portal1" || stmt != "st1" || formatCount != 0 || paramN != 2 {
		t.Fatalf("Bind header: portal=%q stmt=%q formats=%d params=%d", portal, stmt, formatCount, paramN)
	}
	if null1 || string(v1) != "x" {
		t.Errorf("Bind param 1: got %v null=%v", v1, null1)
	}
	if !null2 || v2 != nil {
		t.Errorf("Bind param 2: got %v null=%v, want null", v2, null2)
	}

	// Execute
	ef := buildExecute("portal1", 10)
	r = newReadBuf(ef[5:])
	portalName, _ := r.cstring()
	maxRows, _ := r.int32()
	if portalName != "portal1" || maxRows != 10 {
		t.Errorf("Execute round trip: portal=%q maxRows=%d", portalName, maxRows)
	}

	// CopyData
	cf := buildCopyData([]byte("raw bytes"))
	if cf[0] != 'd' || !bytes.Equal(cf[5:], []byte("raw bytes")) {
		t.Errorf("CopyData round trip: got %q", cf[5:])
	}
}

func TestFrameLengthInvariantAcrossBuilders(t *testing.T) {
	frames := [][]byte{
		buildQuery("select 1"),
		buildParse("", "select 1"),
		buildBind("", "", nil, nil, nil),
		buildExecute("", 0),
		buildSync(),
		buildFlush(),
		buildTerminate(),
		buildCopyData([]byte("x")),
		buildCopyDone(),
		buildCopyFail("oops"),
		buildPasswordMessage("secret"),
	}
	for _, f := range frames {
		length, ok := MessageLength(f)
		if !ok {
			t.Fatalf("MessageLength insufficient for %x", f)
		}
		if length != len(f)-1 {
			t.Errorf("frame %x: MessageLength=%d, want %d", f, length, len(f)-1)
		}
	}
}
