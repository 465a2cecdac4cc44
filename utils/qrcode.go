package utils

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// QRDataURL encodes content as a PNG QR code wrapped in a data URL.
func QRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
