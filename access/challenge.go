package access

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// Password computes the session-open password for a login challenge:
// the hex encoded HMAC-SHA1 of the challenge keyed with the application token.
func Password(appToken, challenge string) string {
	m := hmac.New(sha1.New, []byte(appToken))
	_, _ = m.Write([]byte(challenge))
	return hex.EncodeToString(m.Sum(nil))
}
