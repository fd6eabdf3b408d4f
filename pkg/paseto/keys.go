package pasetotoken

import (
	"fmt"
	"strings"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, shared key
	ModePublic Mode = "public" // v4.public, signed
)

// Keys holds the key material for one mode. In public mode a verify-only
// deployment may carry Public without Secret.
type Keys struct {
	Mode      Mode
	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

// KeysFromConfig decodes the hex keys configured under authentication.paseto.
func KeysFromConfig(p config.PasetoConfig) (Keys, error) {
	switch Mode(p.Mode) {
	case ModeLocal:
		raw := strings.TrimSpace(p.LocalKeyHex)
		if raw == "" {
			return Keys{}, fmt.Errorf("%w: local mode needs local_key_hex", ErrConfig)
		}
		k, err := paseto.V4SymmetricKeyFromHex(raw)
		if err != nil {
			return Keys{}, fmt.Errorf("%w: local_key_hex: %v", ErrConfig, err)
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}
		if raw := strings.TrimSpace(p.SecretKeyHex); raw != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(raw)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: secret_key_hex: %v", ErrConfig, err)
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		if raw := strings.TrimSpace(p.PublicKeyHex); raw != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(raw)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: public_key_hex: %v", ErrConfig, err)
			}
			out.Public = &pk
		}
		if out.Public == nil {
			return Keys{}, fmt.Errorf("%w: public mode needs secret_key_hex or public_key_hex", ErrConfig)
		}
		return out, nil

	default:
		return Keys{}, fmt.Errorf("%w: unknown mode %q (use local or public)", ErrConfig, p.Mode)
	}
}

// NewPasetoManager builds the session token manager from config. Token
// lifetime follows the session TTL.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto
	keys, err := KeysFromConfig(p)
	if err != nil {
		return nil, err
	}
	return New(Config{
		Mode:     keys.Mode,
		Issuer:   p.Issuer,
		Audience: p.Audience,
		TTL:      cfg.Authentication.SessionTTL(),
	}, keys)
}

// NewLocalKeys generates a fresh symmetric key, for tests and key bootstrap.
func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
