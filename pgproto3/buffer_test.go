package pgproto3

import (
	"bytes"
	"testing"
)

func TestWriteBufReadBuf(t *testing.T) {
	w := newWriteBuf(64)
	w.byte(42)
	w.int16(1234)
	w.int32(567890)
	w.cstring("hello")
	w.bytes([]byte{1, 2, 3})
	w.lengthPrefixedBytes([]byte{9, 9})
	w.lengthPrefixedBytes(nil)

	r := newReadBuf(w.Bytes())

	if b, err := r.byte(); err != nil || b != 42 {
		t.Errorf("byte: got %d, %v, want 42", b, err)
	}
	if v, err := r.int16(); err != nil || v != 1234 {
		t.Errorf("int16: got %d, %v, want 1234", v, err)
	}
	if v, err := r.int32(); err != nil || v != 567890 {
		t.Errorf("int32: got %d, %v, want 567890", v, err)
	}
	if s, err := r.cstring(); err != nil || s != "hello" {
		t.Errorf("cstring: got %q, %v, want hello", s, err)
	}
	if b, err := r.bytes(3); err != nil || !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Errorf("bytes: got %v, %v, want [1 2 3]", b, err)
	}
	if data, isNull, err := r.lengthPrefixedBytes(); err != nil || isNull || !bytes.Equal(data, []byte{9, 9}) {
		t.Errorf("lengthPrefixedBytes: got %v %v %v, want [9 9] false nil", data, isNull, err)
	}
	if data, isNull, err := r.lengthPrefixedBytes(); err != nil || !isNull || data != nil {
		t.Errorf("lengthPrefixedBytes(null): got %v %v %v, want nil true nil", data, isNull, err)
	}
}

func TestReadBufTruncated(t *testing.T) {
	r := newReadBuf([]byte{1, 2})
	if _, err := r.int32(); err == nil {
		t.Error("int32 on a 2-byte buffer should error")
	}
}

func TestFrameTyped(t *testing.T) {
	payload := []byte("select 1\x00")
	f := frame('Q', payload)

	if f[0] != 'Q' {
		t.Fatalf("type byte: got %c, want Q", f[0])
	}

	length, ok := MessageLength(f)
	if !ok {
		t.Fatal("MessageLength reported insufficient on a complete frame")
	}
	if length != len(f)-1 {
		t.Errorf("MessageLength: got %d, want %d", length, len(f)-1)
	}
}

func TestFrameUntyped(t *testing.T) {
	payload := []byte("abc")
	f := frame(0, payload)

	if len(f) != len(payload)+4 {
		t.Fatalf("untyped frame length: got %d, want %d", len(f), len(payload)+4)
	}

	declaredLength := int(f[0])<<24 | int(f[1])<<16 | int(f[2])<<8 | int(f[3])
	if declaredLength != len(f) {
		t.Errorf("untyped frame self-inclusive length: got %d, want %d", declaredLength, len(f))
	}
}
