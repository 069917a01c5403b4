package secure

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const currentKey = "current"

// KeyRing hands out the keypair for each cycle. With a zero lifetime every call
// generates a fresh keypair; otherwise a keypair is reused until its lifetime ends.
type KeyRing struct {
	bits     int
	lifetime time.Duration
	cache    *ttlcache.Cache[string, *KeyPair]
}

func NewKeyRing(bits int, lifetime time.Duration) *KeyRing {
	kr := &KeyRing{
		bits:     bits,
		lifetime: lifetime,
	}
	if lifetime > 0 {
		kr.cache = ttlcache.New[string, *KeyPair](
			ttlcache.WithTTL[string, *KeyPair](lifetime),
			ttlcache.WithDisableTouchOnHit[string, *KeyPair](),
		)
	}
	return kr
}

func (kr *KeyRing) Current() (*KeyPair, error) {
	if kr.cache == nil {
		return kr.generate()
	}
	if item := kr.cache.Get(currentKey); item != nil {
		return item.Value(), nil
	}
	kp, err := kr.generate()
	if err != nil {
		return nil, err
	}
	kr.cache.Set(currentKey, kp, ttlcache.DefaultTTL)
	return kp, nil
}

// Rotate drops the cached keypair so the next call to Current generates a new one.
func (kr *KeyRing) Rotate() {
	if kr.cache != nil {
		kr.cache.Delete(currentKey)
	}
}

// generate creates a keypair and passes it through its PEM form, the way keys reach the channel endpoints.
func (kr *KeyRing) generate() (*KeyPair, error) {
	kp, err := GenerateKeyPair(kr.bits)
	if err != nil {
		return nil, err
	}
	privPEM, pubPEM, err := kp.MarshalPEM()
	if err != nil {
		return nil, err
	}
	return LoadKeyPair(privPEM, pubPEM)
}
