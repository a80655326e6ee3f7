// Package qr holds the transport format for scannable exam payloads:
// the JSON codec and the PNG data-URL rendering of it.
package qr

import (
	"encoding/json"

	"queon/internal/models"
)

// Encode serializes a payload to the exact JSON string embedded in a QR
// image.
func Encode(p models.QrPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses raw scanned text into a payload. Any malformed input —
// non-JSON, wrong shape, unknown type tag, missing fields — yields nil
// so the scan flow can surface a generic "invalid QR" error instead of
// crashing.
func Decode(raw string) *models.QrPayload {
	var p models.QrPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	if p.ExamID == "" || p.Token == "" || !p.Type.Valid() {
		return nil
	}
	return &p
}
