// Package lookup resolves hashes to sandbox reports through the result cache
// and the Falcon Sandbox client.
package lookup

import "strings"

// HashKind names the digest algorithm a hash string looks like.
type HashKind string

// Known hash kinds.
const (
	KindMD5     HashKind = "md5"
	KindSHA1    HashKind = "sha1"
	KindSHA256  HashKind = "sha256"
	KindSHA512  HashKind = "sha512"
	KindUnknown HashKind = "unknown"
)

// Normalize trims whitespace and lower-cases a hash for use as a cache key.
func Normalize(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

// Classify guesses the digest kind from length and alphabet. It is
// informational only: unknown hashes are still sent to the service.
func Classify(hash string) HashKind {
	h := Normalize(hash)
	if !isHex(h) {
		return KindUnknown
	}
	switch len(h) {
	case 32:
		return KindMD5
	case 40:
		return KindSHA1
	case 64:
		return KindSHA256
	case 128:
		return KindSHA512
	}
	return KindUnknown
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
