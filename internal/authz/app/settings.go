package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
)

// AuthSettings are parsed once at startup and never change afterwards.
type AuthSettings struct {
	Client *domain.ClientAppSetting // nil when AUTHZ_CLIENT_SETTINGS is unset
	Keys   *jwtx.KeySet
}

// LoadAuthSettings parses the client settings and the JWKS. Missing client
// settings are not an error: every token then fails with
// ClientAppSettingsMissing, which is what callers see in the 401.
func LoadAuthSettings(cfg Config) (AuthSettings, error) {
	client, err := parseClientSettings(cfg.ClientSettings)
	if err != nil {
		return AuthSettings{}, err
	}

	raw := []byte(cfg.PublicKeys)
	if len(bytes.TrimSpace(raw)) == 0 && cfg.PublicKeysFile != "" {
		raw, err = os.ReadFile(cfg.PublicKeysFile)
		if err != nil {
			return AuthSettings{}, fmt.Errorf("read public keys file: %w", err)
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return AuthSettings{}, errors.New("AUTHZ_PUBLIC_KEYS or AUTHZ_PUBLIC_KEYS_FILE is required")
	}

	keys, err := jwtx.NewKeySetFromJWKS(raw)
	if err != nil {
		return AuthSettings{}, fmt.Errorf("load public keys: %w", err)
	}

	return AuthSettings{Client: client, Keys: keys}, nil
}

// parseClientSettings accepts a single object or a one-element array.
func parseClientSettings(s string) (*domain.ClientAppSetting, error) {
	raw := bytes.TrimSpace([]byte(s))
	if len(raw) == 0 {
		return nil, nil
	}

	var setting domain.ClientAppSetting
	if raw[0] == '[' {
		var list []domain.ClientAppSetting
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parse client settings: %w", err)
		}
		if len(list) != 1 {
			return nil, fmt.Errorf("parse client settings: expected one client, got %d", len(list))
		}
		setting = list[0]
	} else if err := json.Unmarshal(raw, &setting); err != nil {
		return nil, fmt.Errorf("parse client settings: %w", err)
	}

	if setting.ClientID == "" || setting.PoolID == "" {
		return nil, errors.New("parse client settings: clientId and poolId are required")
	}
	return &setting, nil
}
