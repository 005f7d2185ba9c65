package pgproto3

import (
	"testing"
)

// fakeBackendFrames builds a stream of typed frames as a real backend
// would send them for a no-password handshake followed by one
// successful "select name from t" round trip.
func fakeBackendFrames() []byte {
	var out []byte

	// AuthenticationOk
	auth := newWriteBuf(4)
	auth.int32(0)
	out = append(out, frame(backendAuthentication, auth.Bytes())...)

	// ParameterStatus x2
	ps1 := newWriteBuf(16)
	ps1.cstring("server_version")
	ps1.cstring("16.1")
	out = append(out, frame(backendParameterStatus, ps1.Bytes())...)

	ps2 := newWriteBuf(16)
	ps2.cstring("client_encoding")
	ps2.cstring("UTF8")
	out = append(out, frame(backendParameterStatus, ps2.Bytes())...)

	// BackendKeyData
	bkd := newWriteBuf(8)
	bkd.int32(4242)
	bkd.int32(99)
	out = append(out, frame(backendBackendKeyData, bkd.Bytes())...)

	// ReadyForQuery (idle)
	rfq := newWriteBuf(1)
	rfq.byte('I')
	out = append(out, frame(backendReadyForQuery, rfq.Bytes())...)

	// RowDescription: one column "name"
	rd := newWriteBuf(32)
	rd.int16(1)
	rd.cstring("name")
	rd.int32(0)
	rd.int16(0)
	rd.int32(25) // text OID
	rd.int16(-1)
	rd.int32(-1)
	rd.int16(0)
	out = append(out, frame(backendRowDescription, rd.Bytes())...)

	// DataRow x2
	dr1 := newWriteBuf(16)
	dr1.int16(1)
	dr1.lengthPrefixedBytes([]byte("alice"))
	out = append(out, frame(backendDataRow, dr1.Bytes())...)

	dr2 := newWriteBuf(16)
	dr2.int16(1)
	dr2.lengthPrefixedBytes([]byte("bob"))
	out = append(out, frame(backendDataRow, dr2.Bytes())...)

	// CommandComplete
	cc := newWriteBuf(16)
	cc.cstring("SELECT 2")
	out = append(out, frame(backendCommandComplete, cc.Bytes())...)

	// ReadyForQuery (idle) again
	rfq2 := newWriteBuf(1)
	rfq2.byte('I')
	out = append(out, frame(backendReadyForQuery, rfq2.Bytes())...)

	return out
}

// TestHandshakeThroughQueryRoundTrip feeds a fabricated backend byte
// stream through Parser and Session.HandleDecoded exactly as netconn
// would, split across arbitrary chunk boundaries, and checks every
// event fires in order with the expected payloads.
func TestHandshakeThroughQueryRoundTrip(t *testing.T) {
	s, sent := newTestSession(t)

	var events []string
	var names []string
	var rows [][]string
	var readyCount int

	s.On(EventAuthenticated, func(any) { events = append(events, "auth_ok") })
	s.On(EventParameterStatus, func(any) { events = append(events, "param_status") })
	s.On(EventBackendKeyData, func(any) { events = append(events, "backend_key_data") })
	s.On(EventRowDescription, func(payload any) {
		events = append(events, "row_description")
		evt := payload.(RowDescriptionEvent)
		for _, f := range evt.Fields {
			names = append(names, f.Name)
		}
	})
	s.On(EventDataRow, func(payload any) {
		events = append(events, "data_row")
		evt := payload.(DataRowEvent)
		row := make([]string, len(evt.Cells))
		for i, c := range evt.Cells {
			if c.Null {
				row[i] = "NULL"
			} else {
				row[i] = string(c.Data)
			}
		}
		rows = append(rows, row)
	})
	s.On(EventCommandComplete, func(any) { events = append(events, "command_complete") })
	s.On(EventReadyForQuery, func(any) {
		events = append(events, "ready_for_query")
		readyCount++
	})

	if err := s.InitialRequest("alice", "mydb", ""); err != nil {
		t.Fatalf("InitialRequest: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected exactly one StartupMessage frame, got %d", len(*sent))
	}

	backendStream := fakeBackendFrames()
	p := NewParser()

	// Feed the handshake in odd-sized chunks to exercise partial-frame
	// buffering across an arbitrary wire boundary.
	const chunk = 7
	for i := 0; i < len(backendStream); i += chunk {
		end := i + chunk
		if end > len(backendStream) {
			end = len(backendStream)
		}
		p.Feed(backendStream[i:end])
		for {
			msgType, payload, ok, err := p.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !ok {
				break
			}
			if err := s.HandleDecoded(msgType, payload); err != nil {
				t.Fatalf("HandleDecoded(%q): %v", msgType, err)
			}
		}
	}

	if !s.IsAuthenticated() {
		t.Error("expected session to be authenticated after AuthenticationOk")
	}
	if readyCount != 2 {
		t.Errorf("got %d ReadyForQuery events, want 2", readyCount)
	}

	if err := s.SimpleQuery("select name from t"); err != nil {
		t.Fatalf("SimpleQuery: %v", err)
	}
	if len(*sent) != 2 {
		t.Fatalf("expected a second frame for the Query message, got %d", len(*sent))
	}

	wantEvents := []string{
		"auth_ok", "param_status", "param_status", "backend_key_data", "ready_for_query",
		"row_description", "data_row", "data_row", "command_complete", "ready_for_query",
	}
	if len(events) != len(wantEvents) {
		t.Fatalf("got %d events %v, want %d %v", len(events), events, len(wantEvents), wantEvents)
	}
	for i, want := range wantEvents {
		if events[i] != want {
			t.Errorf("event %d: got %q, want %q", i, events[i], want)
		}
	}

	if len(names) != 1 || names[0] != "name" {
		t.Errorf("row description fields: got %v, want [name]", names)
	}
	if len(rows) != 2 || rows[0][0] != "alice" || rows[1][0] != "bob" {
		t.Errorf("data rows: got %v, want [[alice] [bob]]", rows)
	}
}

// TestHandshakeMD5Authentication feeds an MD5-challenge handshake and
// checks the derived PasswordMessage frame.
func TestHandshakeMD5Authentication(t *testing.T) {
	s, sent := newTestSession(t)
	if err := s.InitialRequest("alice", "mydb", ""); err != nil {
		t.Fatalf("InitialRequest: %v", err)
	}

	var gotPasswordEvent bool
	s.On(EventPassword, func(any) { gotPasswordEvent = true })

	authPayload := append([]byte{0, 0, 0, 5}, 0xde, 0xad, 0xbe, 0xef)
	authFrame := frame(backendAuthentication, authPayload)

	if err := s.HandleMessage(authFrame); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !gotPasswordEvent {
		t.Fatal("expected EventPassword to fire on AuthenticationMD5Password")
	}

	if err := s.SendPassword("secret"); err != nil {
		t.Fatalf("SendPassword: %v", err)
	}
	if len(*sent) != 2 {
		t.Fatalf("expected StartupMessage + PasswordMessage, got %d frames", len(*sent))
	}
	pwFrame := (*sent)[1]
	if pwFrame[0] != frontendPassword {
		t.Errorf("got type byte %q, want %q", pwFrame[0], frontendPassword)
	}
}
