// Package content resolves file operation bytes to and from their declared
// encoding, shared by the analyzer (to compare current disk bytes against a
// declared target) and the executor (to compute bytes to write).
package content

import (
	"encoding/base64"
	"fmt"

	"github.com/kb-labs/setup-engine/operation"
)

// Decode converts a declared operation content string into the raw bytes it
// represents. For EncodingUTF8, text is the bytes verbatim; for
// EncodingBase64, text is base64 and is decoded.
func Decode(text string, encoding operation.Encoding) ([]byte, error) {
	switch encoding {
	case operation.EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 content: %w", err)
		}
		return decoded, nil
	case operation.EncodingUTF8, "":
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// Encode converts raw bytes into the string representation matching
// encoding, the inverse of Decode. It is used to present on-disk bytes in
// the same representation as a declared operation.Content so the two can be
// compared or reported side by side.
func Encode(data []byte, encoding operation.Encoding) string {
	switch encoding {
	case operation.EncodingBase64:
		return base64.StdEncoding.EncodeToString(data)
	default:
		return string(data)
	}
}
