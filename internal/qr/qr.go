package qr

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// NewCode mints a QR payload of the form UBT-<year>-<8-hex-token>-<3-digit>.
// The random token carries the entropy; the sequence is random too, not a
// counter. Uniqueness is probabilistic here and enforced by the unique index
// on products.qr_code.
func NewCode() string {
	year := time.Now().Year()
	token := strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
	sequence := rand.Intn(1000)
	return fmt.Sprintf("UBT-%d-%s-%03d", year, token, sequence)
}

// ImagePNG renders the payload as a QR symbol, used for print/download.
func ImagePNG(payload string, size int) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, size)
}
