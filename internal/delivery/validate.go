package delivery

import (
	"bytes"

	"rosterboard/internal/pkg/errors"
)

const (
	// MinPayloadSize rejects buffers too small to be a real roster image.
	MinPayloadSize = 1 << 10 // 1KB
	// MaxPayloadSize rejects buffers the messaging channel would refuse.
	MaxPayloadSize = 20 << 20 // 20MB
)

var jpegMarker = []byte{0xFF, 0xD8, 0xFF}

// ValidatePayload checks a decoded image buffer before any send attempt.
// A rejected buffer never reaches the external channel.
func ValidatePayload(b []byte) error {
	switch {
	case len(b) == 0:
		return errors.Validation("image payload is empty")
	case len(b) < MinPayloadSize:
		return errors.Validationf("image payload too small: %d bytes", len(b))
	case len(b) > MaxPayloadSize:
		return errors.Validationf("image payload too large: %d bytes", len(b))
	case !bytes.HasPrefix(b, jpegMarker):
		return errors.Validation("image payload is not JPEG")
	}
	return nil
}
