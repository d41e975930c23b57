package utils

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// codeDigits is the alphabet for password-reset codes. The zero digit is
// excluded so codes are never mistaken for octal or truncated leading-zero
// values when read back from a mail client.
const codeDigits = "123456789"

// RandomCode returns a one-time numeric code of the given length drawn
// uniformly from the digits 1-9. Lengths below one fall back to six.
func RandomCode(length int) string {
	if length < 1 {
		length = 6
	}
	var b strings.Builder
	b.Grow(length)
	buf := make([]byte, 1)
	for b.Len() < length {
		if _, err := rand.Read(buf); err != nil {
			continue
		}
		// Rejection sampling keeps the draw uniform: 252 is the largest
		// multiple of 9 below 256.
		if buf[0] >= 252 {
			continue
		}
		b.WriteByte(codeDigits[int(buf[0])%len(codeDigits)])
	}
	return b.String()
}

// RandomSuffix returns a short random identifier fragment, used to
// de-collide generated usernames.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ObscureEmail masks the local part of an email address for confirmation
// messages, e.g. "alice@x.com" -> "a***e@x.com". Local parts of one or two
// characters reveal only the first character.
func ObscureEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	name, domain := email[:at], email[at+1:]
	l := len(name)
	if l > 2 {
		return name[:1] + strings.Repeat("*", l-2) + name[l-1:] + "@" + domain
	}
	return name[:1] + strings.Repeat("*", l-1) + "@" + domain
}
