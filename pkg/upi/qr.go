package upi

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize 默认二维码边长（像素）
const DefaultQRSize = 256

// QRCode 将付款链接编码为 PNG 二维码
func QRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// QRDataURL 返回 data:image/png;base64 形式的二维码，前端可直接作为 img src
func QRDataURL(content string, size int) (string, error) {
	png, err := QRCode(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
