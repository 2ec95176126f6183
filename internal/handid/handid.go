// Package handid generates sortable identifiers for dealt hands. IDs are
// UUIDv7 values encoded as 26 characters of Crockford base32, so log lines
// and hand_ended payloads sort chronologically.
package handid

import (
	"crypto/rand"
	"fmt"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns a fresh hand identifier
func New() string {
	return encode(uuidv7(time.Now()))
}

func uuidv7(now time.Time) [16]byte {
	var id [16]byte

	ms := now.UnixMilli()
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)

	if _, err := rand.Read(id[6:]); err != nil {
		panic("handid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return id
}

// encode packs the 128-bit value into 26 base32 characters, five bits at a
// time, most significant bits first.
func encode(data [16]byte) string {
	out := make([]byte, 26)
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

// Validate checks that an ID is 26 characters of the base32 alphabet
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand ID must be 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if !validChar(id[i]) {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
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
