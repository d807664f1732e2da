package roomcode

import (
	"crypto/rand"
	"strings"
)

// Length of generated room codes.
const Length = 6

// Uppercase alphanumerics. 36^6 codes; collisions are not re-checked before
// insert, the unique constraint on sessions.room_code is the backstop.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a new 6-character uppercase alphanumeric room code.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// nothing sensible to degrade to.
		panic(err)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

// Normalize maps user input onto the stored form: trimmed, uppercase.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code looks like a room code after normalization.
func Valid(code string) bool {
	code = Normalize(code)
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
