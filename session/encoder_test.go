package session

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	in := &Session{
		ID:        "rec-1",
		SessionID: "ignored",
		UserID:    "u-1",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if out.SessionID != "" {
		t.Fatalf("session id must not be encoded, got %q", out.SessionID)
	}
	if out.UserID != in.UserID || out.ID != in.ID {
		t.Fatalf("unexpected ids: %+v", out)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("timestamps mismatch: %+v", out)
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	_, err := Decode([]byte{99})
	if err == nil || !strings.Contains(err.Error(), "unsupported session format version") {
		t.Fatalf("expected unsupported version error, got %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	data, err := Encode(&Session{UserID: "u", CreatedAt: time.Unix(1, 0), UpdatedAt: time.Unix(1, 0)})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, err := Decode(append(data, 0)); err == nil {
		t.Fatal("expected trailing bytes to be rejected")
	}
}

func TestEncodeRejectsLongUserID(t *testing.T) {
	if _, err := Encode(&Session{UserID: strings.Repeat("u", 256)}); err == nil {
		t.Fatal("expected long user id to be rejected")
	}
}
