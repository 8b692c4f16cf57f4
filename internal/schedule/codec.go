package schedule

import (
	"encoding/json"

	"github.com/Nixie-Tech-LLC/iftar/internal/secure"
)

// Decoding records how a stored document was read.
type Decoding int

const (
	Absent Decoding = iota
	Decrypted
	LegacyPlaintext
	Corrupt
)

func (d Decoding) String() string {
	switch d {
	case Decrypted:
		return "decrypted"
	case LegacyPlaintext:
		return "legacy-plaintext"
	case Corrupt:
		return "corrupt"
	default:
		return "absent"
	}
}

// decodeDocument resolves a stored value once: sealed JSON first, then bare
// JSON written before encryption was enabled. Anything else is Corrupt and
// yields the zero value.
func decodeDocument[T any](c secure.Cipher, raw string) (T, Decoding) {
	var zero T
	if raw == "" {
		return zero, Absent
	}
	if c != nil {
		if plain, err := c.Decrypt(raw); err == nil {
			var v T
			if json.Unmarshal(plain, &v) == nil {
				return v, Decrypted
			}
			return zero, Corrupt
		}
	}
	var v T
	if json.Unmarshal([]byte(raw), &v) == nil {
		return v, LegacyPlaintext
	}
	return zero, Corrupt
}

func encodeDocument(c secure.Cipher, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if c == nil {
		return string(raw), nil
	}
	return c.Encrypt(raw)
}
