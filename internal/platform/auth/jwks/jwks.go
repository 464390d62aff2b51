// Package jwks encodes and decodes RSA JSON Web Key Sets.
package jwks

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrNoUsableKeys is returned when a set contains no RSA key with a kid.
var ErrNoUsableKeys = errors.New("no usable jwks keys")

type Key struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type Set struct {
	Keys []Key `json:"keys"`
}

// FromRSA describes an RS256 signing key.
func FromRSA(kid string, pub *rsa.PublicKey) Key {
	enc := base64.RawURLEncoding
	return Key{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: kid,
		N:   enc.EncodeToString(pub.N.Bytes()),
		// e is a big-endian unsigned int.
		E: enc.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func Marshal(keys ...Key) ([]byte, error) {
	if keys == nil {
		keys = []Key{}
	}
	return json.Marshal(Set{Keys: keys})
}

// ParseRSA decodes a key set into public keys by kid. Non-RSA keys and keys without a kid are
// skipped.
func ParseRSA(b []byte) (map[string]*rsa.PublicKey, error) {
	var set Set
	if err := json.Unmarshal(b, &set); err != nil {
		return nil, err
	}
	out := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" || k.N == "" || k.E == "" {
			continue
		}
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("jwk %s: modulus: %w", k.Kid, err)
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("jwk %s: exponent: %w", k.Kid, err)
		}
		e := new(big.Int).SetBytes(eb)
		if !e.IsInt64() || e.Int64() <= 0 || e.Int64() > int64(^uint(0)>>1) {
			return nil, fmt.Errorf("jwk %s: invalid exponent", k.Kid)
		}
		out[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e.Int64())}
	}
	if len(out) == 0 {
		return nil, ErrNoUsableKeys
	}
	return out, nil
}
