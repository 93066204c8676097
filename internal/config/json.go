package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file source.
// Durations are written as strings ("168h", "30s"). Bootstrap admin values
// are read from the environment only.
type StructuredJSONConfig struct {
	App struct {
		LogLevel      string   `json:"log_level"`
		HashAlgorithm string   `json:"hash_algorithm"`
		BcryptCost    int      `json:"bcrypt_cost"`
		SessionTTL    Duration `json:"session_ttl"`
		CookieName    string   `json:"cookie_name"`
		CookieSecure  bool     `json:"cookie_secure"`
		RootAdminID   string   `json:"root_admin_id"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver string `json:"driver"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Sessions struct {
			Backend      string `json:"backend"`
			RedisAddress string `json:"redis_address"`
		} `json:"sessions,omitempty"`

		Snapshot struct {
			Path     string   `json:"path"`
			Interval Duration `json:"interval"`
		} `json:"snapshot,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		MetricsEnabled bool     `json:"metrics_enabled"`
	} `json:"server,omitempty"`

	Workers struct {
		CascadeQueue string `json:"cascade_queue"`
		RedisAddress string `json:"redis_address"`
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
			LogLevel:      jsonCfg.App.LogLevel,
			HashAlgorithm: jsonCfg.App.HashAlgorithm,
			BcryptCost:    jsonCfg.App.BcryptCost,
			SessionTTL:    time.Duration(jsonCfg.App.SessionTTL),
			CookieName:    jsonCfg.App.CookieName,
			CookieSecure:  jsonCfg.App.CookieSecure,
			RootAdminID:   jsonCfg.App.RootAdminID,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Sessions: Sessions{
				Backend:      jsonCfg.Storage.Sessions.Backend,
				RedisAddress: jsonCfg.Storage.Sessions.RedisAddress,
			},
			Snapshot: Snapshot{
				Path:     jsonCfg.Storage.Snapshot.Path,
				Interval: time.Duration(jsonCfg.Storage.Snapshot.Interval),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			MetricsEnabled: jsonCfg.Server.MetricsEnabled,
		},
		Workers: Workers{
			CascadeQueue: jsonCfg.Workers.CascadeQueue,
			RedisAddress: jsonCfg.Workers.RedisAddress,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
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
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
