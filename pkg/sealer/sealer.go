// Package sealer produces the opaque QR payload printed on a booking.
// The payload is an AES-GCM sealed pairing of booking ID and number
// plate, so a gate scanner holding the key can verify a code offline
// without exposing booking internals in the QR itself.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Seal encrypts bookingID and plate into a URL-safe token. key is the
// base64-encoded AES key (16, 24 or 32 bytes decoded).
func Seal(key, bookingID, plate string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	plaintext := []byte(bookingID + ":" + plate)
	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open decrypts a token produced by Seal and returns the booking ID and
// plate it carries.
func Open(key, token string) (string, string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}

func newGCM(key string) (cipher.AEAD, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid seal key: %w", err)
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
