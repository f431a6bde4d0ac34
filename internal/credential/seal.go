package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "secretbox:"
	nonceSize    = 24
	hkdfInfo     = "car-marketplace-client credential v1"
)

var errUnsealable = errors.New("credential cannot be unsealed")

// sealer encrypts the credential at rest with a key derived from a passphrase.
type sealer struct {
	key [32]byte
}

func newSealer(secret string) (*sealer, error) {
	if secret == "" {
		return nil, errors.New("empty credential secret")
	}
	s := &sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sealer) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *sealer) open(value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, sealedPrefix)
	if !ok {
		return "", errUnsealable
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", errUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errUnsealable
	}
	return string(plain), nil
}

func isSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}
