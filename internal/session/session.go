// Package session mints opaque session tokens: UUIDv7 payloads encoded as
// 26-character Crockford base32. Tokens sort roughly by creation time, which
// keeps server logs readable.
package session

import (
	"crypto/rand"
	"fmt"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const tokenLen = 26

// New mints a fresh session token.
func New() string {
	var raw [16]byte

	now := time.Now().UnixMilli()
	raw[0] = byte(now >> 40)
	raw[1] = byte(now >> 32)
	raw[2] = byte(now >> 24)
	raw[3] = byte(now >> 16)
	raw[4] = byte(now >> 8)
	raw[5] = byte(now)

	if _, err := rand.Read(raw[6:]); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}

	// UUIDv7 version and variant bits.
	raw[6] = (raw[6] & 0x0f) | 0x70
	raw[8] = (raw[8] & 0x3f) | 0x80

	return encode(raw)
}

func encode(data [16]byte) string {
	out := make([]byte, tokenLen)
	for i := range out {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var v uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				v = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				v = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					v |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Validate checks that a token is well formed.
func Validate(token string) error {
	if len(token) != tokenLen {
		return fmt.Errorf("session token must be %d characters, got %d", tokenLen, len(token))
	}
	if token[0] > '7' {
		return fmt.Errorf("session token first character must be 0-7, got %c", token[0])
	}
	for i := 0; i < len(token); i++ {
		if !validChar(token[i]) {
			return fmt.Errorf("invalid character %c at position %d", token[i], i)
		}
	}
	return nil
}

func validChar(c byte) bool {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == c {
			return true
		}
	}
	return false
}
