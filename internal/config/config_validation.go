package config

import "encoding/hex"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.MasterKeyHex != "" {
		key, err := hex.DecodeString(cfg.App.MasterKeyHex)
		if err != nil || len(key) != 32 {
			return ErrInvalidMasterKey
		}
	}

	if cfg.Security.RequestSigning && cfg.Security.SigningScheme == "hmac" && cfg.Security.SigningSecret == "" {
		return ErrInvalidSecurityConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 || cfg.Adapter.RefreshTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Session.Duration == 0 || cfg.Session.WarningLead == 0 || cfg.Session.WarningLead >= cfg.Session.Duration {
		return ErrInvalidSessionConfigs
	}

	return nil
}
