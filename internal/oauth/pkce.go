package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// 32 random bytes give 256 bits of entropy for both the PKCE verifier and
// the state parameter; the base64url form is 43 characters, above the
// 32-character minimum some providers enforce.
const randomBytes = 32

// GeneratePKCE returns a fresh S256 code verifier and its challenge.
func GeneratePKCE() (verifier, challenge string, err error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate pkce verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(buf)
	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])
	return verifier, challenge, nil
}

// GenerateState returns a random state parameter linking an authorization
// response back to the request that initiated it.
func GenerateState() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
