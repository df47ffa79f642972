// Package config loads configuration for the Handspeak binaries.
//
// Configuration is layered, lowest precedence first: built-in defaults, an
// optional YAML file named by HANDSPEAK_CONFIG, then environment variables
// with the HANDSPEAK_ prefix (HANDSPEAK_ADDR -> addr).
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Portal holds configuration for the web application process.
type Portal struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// SessionKey signs the session cookie. Must be set outside development.
	SessionKey string `koanf:"session_key"`

	// SecureCookies marks the session cookie Secure. Enable behind TLS;
	// over plain HTTP browsers discard Secure cookies and sign-in
	// cannot stick.
	SecureCookies bool `koanf:"secure_cookies"`

	// StaticDir locates static assets; empty disables the file server.
	StaticDir string `koanf:"static_dir"`

	// Google OAuth client credentials.
	GoogleClientID     string `koanf:"google_client_id"`
	GoogleClientSecret string `koanf:"google_client_secret"`

	// OAuthRedirectURL is the externally reachable callback URL.
	OAuthRedirectURL string `koanf:"oauth_redirect_url"`
}

// Recognizer holds configuration for the recognition service process.
type Recognizer struct {
	// Addr is the HTTP/websocket listen address, e.g. ":5001".
	Addr string `koanf:"addr"`

	// ModelPath is the serialized classifier artifact.
	ModelPath string `koanf:"model_path"`

	// WorkerScript is the MediaPipe landmark worker. Empty means search
	// the usual locations.
	WorkerScript string `koanf:"worker_script"`

	// Hand detection thresholds.
	MaxHands         int     `koanf:"max_hands"`
	MinDetectionConf float64 `koanf:"min_detection_confidence"`
	MinTrackingConf  float64 `koanf:"min_tracking_confidence"`
}

// DefaultPortal returns portal defaults suitable for local development.
func DefaultPortal() *Portal {
	return &Portal{
		Addr:             ":8080",
		DBPath:           "handspeak.db",
		SessionKey:       "dev-session-key-change-me",
		OAuthRedirectURL: "http://localhost:8080/auth/google/callback",
	}
}

// DefaultRecognizer returns recognizer defaults suitable for local development.
func DefaultRecognizer() *Recognizer {
	return &Recognizer{
		Addr:             ":5001",
		ModelPath:        "models/asl_centroids.json",
		MaxHands:         1,
		MinDetectionConf: 0.7,
		MinTrackingConf:  0.5,
	}
}

// LoadPortal builds the portal configuration from defaults, file and env.
func LoadPortal() (*Portal, error) {
	cfg := *DefaultPortal()
	if err := load(&cfg); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	return &cfg, nil
}

// LoadRecognizer builds the recognizer configuration from defaults, file and env.
func LoadRecognizer() (*Recognizer, error) {
	cfg := *DefaultRecognizer()
	if err := load(&cfg); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.MaxHands < 1 {
		return nil, errors.New("max_hands must be at least 1")
	}
	return &cfg, nil
}

func load(out any) error {
	k := koanf.New(".")

	if path := os.Getenv("HANDSPEAK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return err
		}
	}

	// HANDSPEAK_DB_PATH -> db_path; underscores preserved to match koanf tags.
	envProvider := env.Provider("HANDSPEAK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "handspeak_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return err
	}

	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"})
}
