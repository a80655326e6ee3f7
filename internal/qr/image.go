package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"queon/internal/models"
)

// imageSize matches the 300px rendering the dashboard lays out for.
const imageSize = 300

// DataURL renders a payload as a PNG data URL suitable for an <img>
// src attribute, using medium error correction.
func DataURL(p models.QrPayload) (string, error) {
	text, err := Encode(p)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(text, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("render qr image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
