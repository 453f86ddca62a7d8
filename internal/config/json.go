package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations so operators can keep a single config file.
type StructuredJSONConfig struct {
	App struct {
		MasterKeyHex         string   `json:"master_key"`
		AccessSignKey        string   `json:"access_sign_key"`
		RefreshSignKey       string   `json:"refresh_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenDuration  Duration `json:"access_token_duration"`
		RefreshTokenDuration Duration `json:"refresh_token_duration"`
		TokenHashKey         string   `json:"token_hash_key"`
		Version              string   `json:"version"`
	} `json:"app,omitempty"`

	Security struct {
		ReplayProtection bool     `json:"replay_protection"`
		ContentIntegrity bool     `json:"content_integrity"`
		RequestSigning   bool     `json:"request_signing"`
		ReplayWindow     Duration `json:"replay_window"`
		SigningScheme    string   `json:"signing_scheme"`
		SigningSecret    string   `json:"signing_secret"`
	} `json:"security,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			Addr     string `json:"addr"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		RefreshTimeout Duration `json:"refresh_timeout"`
	} `json:"adapter,omitempty"`

	Session struct {
		Duration               Duration `json:"duration"`
		WarningLead            Duration `json:"warning_lead"`
		ActivityResetThreshold Duration `json:"activity_reset_threshold"`
	} `json:"session,omitempty"`

	Workers struct {
		ReplaySweepInterval  Duration `json:"replay_sweep_interval"`
		SessionSweepInterval Duration `json:"session_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			MasterKeyHex:         jsonCfg.App.MasterKeyHex,
			AccessSignKey:        jsonCfg.App.AccessSignKey,
			RefreshSignKey:       jsonCfg.App.RefreshSignKey,
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			AccessTokenDuration:  time.Duration(jsonCfg.App.AccessTokenDuration),
			RefreshTokenDuration: time.Duration(jsonCfg.App.RefreshTokenDuration),
			TokenHashKey:         jsonCfg.App.TokenHashKey,
			Version:              jsonCfg.App.Version,
		},
		Security: Security{
			ReplayProtection: jsonCfg.Security.ReplayProtection,
			ContentIntegrity: jsonCfg.Security.ContentIntegrity,
			RequestSigning:   jsonCfg.Security.RequestSigning,
			ReplayWindow:     time.Duration(jsonCfg.Security.ReplayWindow),
			SigningScheme:    jsonCfg.Security.SigningScheme,
			SigningSecret:    jsonCfg.Security.SigningSecret,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Addr:     jsonCfg.Storage.Redis.Addr,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RefreshTimeout: time.Duration(jsonCfg.Adapter.RefreshTimeout),
		},
		Session: Session{
			Duration:               time.Duration(jsonCfg.Session.Duration),
			WarningLead:            time.Duration(jsonCfg.Session.WarningLead),
			ActivityResetThreshold: time.Duration(jsonCfg.Session.ActivityResetThreshold),
		},
		Workers: Workers{
			ReplaySweepInterval:  time.Duration(jsonCfg.Workers.ReplaySweepInterval),
			SessionSweepInterval: time.Duration(jsonCfg.Workers.SessionSweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
