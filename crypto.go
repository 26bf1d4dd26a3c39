/*
Package listkit – at-rest field encryption.

AES-256-GCM with a key derived from the configured password. Encoded
values are self-describing ("primary::<nonce-hex>:<base64>") so plain
stored values pass through decrypt unchanged.
*/
package listkit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

type cryptoEntry struct {
	name string
	key  []byte
}

func newCryptoEntry(password string) *cryptoEntry {
	h := sha256.Sum256([]byte(password))
	return &cryptoEntry{name: "primary", key: h[:]}
}

func (e *Engine) encrypt(text string) (string, error) {
	if text == "" {
		return text, nil
	}
	if e.crypto == nil {
		return "", NewArgError("No crypto config defined")
	}
	block, err := aes.NewCipher(e.crypto.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(text), nil)
	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	return fmt.Sprintf("%s::%x:%s", e.crypto.name, nonce, encoded), nil
}

func (e *Engine) decrypt(text string) (string, error) {
	if text == "" {
		return text, nil
	}
	parts := strings.SplitN(text, ":", 4)
	if len(parts) < 4 {
		return text, nil
	}
	if e.crypto == nil {
		return "", NewArgError("No crypto config defined")
	}
	if parts[0] != e.crypto.name {
		return "", NewArgError(fmt.Sprintf("No crypto config for %q", parts[0]))
	}
	data, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(e.crypto.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
