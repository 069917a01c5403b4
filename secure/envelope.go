package secure

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/encodeous/topomon/state"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// the payload is a single RSA-OAEP block
	modeDirect byte = 1
	// an RSA-OAEP wrapped key followed by an XChaCha20-Poly1305 sealed payload
	modeSealed byte = 2
)

// MaxDirectPayload is the largest payload RSA-OAEP with SHA-256 can encrypt under pub.
func MaxDirectPayload(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha256.Size - 2
}

// Encrypt encrypts data for pub using RSA-OAEP (SHA-256, MGF1-SHA-256, no label).
// Payloads too large for one OAEP block are sealed with a fresh symmetric key that is OAEP wrapped.
func Encrypt(data []byte, pub *rsa.PublicKey) ([]byte, error) {
	if len(data) <= MaxDirectPayload(pub) {
		ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, data, nil)
		if err != nil {
			return nil, err
		}
		return append([]byte{modeDirect}, ct...), nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err = rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(wrapped)+len(nonce)+len(data)+aead.Overhead())
	out = append(out, modeSealed)
	out = append(out, wrapped...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, []byte{modeSealed}), nil
}

// Decrypt reverses Encrypt. All failures wrap state.ErrDecryption.
func Decrypt(ct []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if len(ct) < 1 {
		return nil, fmt.Errorf("%w: empty ciphertext", state.ErrDecryption)
	}
	switch ct[0] {
	case modeDirect:
		pt, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ct[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", state.ErrDecryption, err)
		}
		return pt, nil
	case modeSealed:
		k := priv.Size()
		if len(ct) < 1+k+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
			return nil, fmt.Errorf("%w: sealed ciphertext too short", state.ErrDecryption)
		}
		key, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ct[1:1+k], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", state.ErrDecryption, err)
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", state.ErrDecryption, err)
		}
		nonce := ct[1+k : 1+k+chacha20poly1305.NonceSizeX]
		pt, err := aead.Open(nil, nonce, ct[1+k+chacha20poly1305.NonceSizeX:], []byte{modeSealed})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", state.ErrDecryption, err)
		}
		return pt, nil
	}
	return nil, fmt.Errorf("%w: unknown envelope mode %d", state.ErrDecryption, ct[0])
}

// RoundTrip sends data through the channel and checks that it comes out unchanged.
// It returns the ciphertext and the decrypted bytes.
func RoundTrip(data []byte, kp *KeyPair) (ct []byte, pt []byte, err error) {
	ct, err = Encrypt(data, kp.Public)
	if err != nil {
		return nil, nil, err
	}
	pt, err = Decrypt(ct, kp.Private)
	if err != nil {
		return ct, nil, err
	}
	if !bytes.Equal(data, pt) {
		return ct, nil, fmt.Errorf("%w: plaintext mismatch", state.ErrDecryption)
	}
	return ct, pt, nil
}
