// Package secure simulates the transport of link snapshots over an
// asymmetrically encrypted channel.
package secure

import (
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/encodeous/topomon/state"
	"go.step.sm/crypto/keyutil"
	"go.step.sm/crypto/pemutil"
)

type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// GenerateKeyPair creates an RSA keypair with public exponent 65537.
func GenerateKeyPair(bits int) (*KeyPair, error) {
	if bits < state.MinKeyBits {
		return nil, fmt.Errorf("rsa key size %d < %d is too small", bits, state.MinKeyBits)
	}
	key, err := keyutil.GenerateKey("RSA", "", bits)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unexpected key type %T", key)
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// MarshalPEM returns the private key as unencrypted PKCS#8 and the public key as SubjectPublicKeyInfo.
func (kp *KeyPair) MarshalPEM() (privPEM []byte, pubPEM []byte, err error) {
	privBlock, err := pemutil.Serialize(kp.Private, pemutil.WithPKCS8(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize private key: %w", err)
	}
	pubBlock, err := pemutil.Serialize(kp.Public)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize public key: %w", err)
	}
	return pem.EncodeToMemory(privBlock), pem.EncodeToMemory(pubBlock), nil
}

func LoadKeyPair(privPEM, pubPEM []byte) (*KeyPair, error) {
	privKey, err := pemutil.ParseKey(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	priv, ok := privKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, not rsa", privKey)
	}
	pubKey, err := pemutil.ParseKey(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	pub, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not rsa", pubKey)
	}
	if !pub.Equal(&priv.PublicKey) {
		return nil, errors.New("public key does not belong to private key")
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}
