package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Verifier checks interaction request signatures. Discord signs
// timestamp||body with the application's ed25519 key and sends the signature
// and timestamp as headers.
type Verifier struct {
	publicKey ed25519.PublicKey
}

// Signature header names on interaction requests.
const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

// NewVerifier parses the hex-encoded application public key from the Discord
// developer portal.
func NewVerifier(publicKeyHex string) (*Verifier, error) {
	key, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode discord public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("discord public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return &Verifier{publicKey: ed25519.PublicKey(key)}, nil
}

// Verify reports whether signature (hex) is a valid ed25519 signature over
// timestamp||body.
func (v *Verifier) Verify(signatureHex, timestamp string, body []byte) bool {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	return ed25519.Verify(v.publicKey, message, sig)
}
