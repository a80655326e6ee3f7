package qr

import (
	"testing"

	"queon/internal/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := models.QrPayload{
		ExamID: "exam-123",
		Type:   models.PayloadEntry,
		Token:  "ent_deadbeef",
	}
	raw, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	got := Decode(raw)
	if got == nil {
		t.Fatalf("Decode() returned nil for valid payload %q", raw)
	}
	if *got != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", *got, p)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	cases := []string{
		"not json",
		"",
		"{}",
		`{"examId":"x"}`,
		`{"examId":"x","type":"ENTRY"}`,
		`{"examId":"x","type":"SIDEWAYS","token":"t"}`,
		`[1,2,3]`,
		`{"examId":1,"type":"ENTRY","token":"t"}`,
	}
	for _, raw := range cases {
		if got := Decode(raw); got != nil {
			t.Fatalf("Decode(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestDataURLShape(t *testing.T) {
	p := models.QrPayload{ExamID: "exam-1", Type: models.PayloadExit, Token: "ext_cafe"}
	url, err := DataURL(p)
	if err != nil {
		t.Fatalf("DataURL() failed: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		t.Fatalf("DataURL() = %q, want %q prefix", url[:40], prefix)
	}
}
