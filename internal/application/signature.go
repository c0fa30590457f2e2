package application

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // GitHub's X-Hub-Signature header is HMAC-SHA1.
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

const (
	sha1SignaturePrefix   = "sha1="
	sha256SignaturePrefix = "sha256="
)

// IsSignatureValid reports whether header is the HMAC-SHA1 signature of body
// keyed with secret, in GitHub's X-Hub-Signature form "sha1=<hex>".
// The hex digest is compared case-insensitively and in constant time.
func IsSignatureValid(body []byte, header string, secret string) bool {
	return verifySignature(body, header, secret, sha1SignaturePrefix, sha1.New)
}

// IsSignature256Valid is IsSignatureValid for GitHub's X-Hub-Signature-256
// header, "sha256=<hex>".
func IsSignature256Valid(body []byte, header string, secret string) bool {
	return verifySignature(body, header, secret, sha256SignaturePrefix, sha256.New)
}

// Signature returns the X-Hub-Signature value GitHub would send for body.
func Signature(body []byte, secret string) string {
	return sha1SignaturePrefix + hex.EncodeToString(digest(body, secret, sha1.New))
}

// Signature256 returns the X-Hub-Signature-256 value for body.
func Signature256(body []byte, secret string) string {
	return sha256SignaturePrefix + hex.EncodeToString(digest(body, secret, sha256.New))
}

func digest(body []byte, secret string, newHash func() hash.Hash) []byte {
	mac := hmac.New(newHash, []byte(secret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}

func verifySignature(body []byte, header, secret, prefix string, newHash func() hash.Hash) bool {
	if !strings.HasPrefix(header, prefix) {
		return false
	}

	// DecodeString accepts upper and lower case hex digits.
	provided, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil || len(provided) == 0 {
		return false
	}

	return hmac.Equal(digest(body, secret, newHash), provided)
}
