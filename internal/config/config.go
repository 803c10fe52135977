// Package config provides configuration management for BagelHacks.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Session   SessionConfig   `mapstructure:"session"`
	Report    ReportConfig    `mapstructure:"report"`
	Server    ServerConfig    `mapstructure:"server"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Avatar    AvatarConfig    `mapstructure:"avatar"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Interview InterviewConfig `mapstructure:"interview"`
}

// SessionConfig configures the realtime interview session.
type SessionConfig struct {
	LiveKitURL     string        `mapstructure:"livekit_url"`
	APIKey         string        `mapstructure:"api_key"`
	APISecret      string        `mapstructure:"api_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
}

// ReportConfig configures evaluation report generation.
type ReportConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"` // empty means the provider default
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// SpeechConfig configures viseme generation from agent transcripts.
type SpeechConfig struct {
	CharDurationMS int `mapstructure:"char_duration_ms"`
	WordPauseMS    int `mapstructure:"word_pause_ms"`
}

// AvatarConfig configures the avatar animation driver.
type AvatarConfig struct {
	ModelPath      string        `mapstructure:"model_path"`
	FadeDuration   time.Duration `mapstructure:"fade_duration"`
	StabilizeDelay time.Duration `mapstructure:"stabilize_delay"`
	BlinkMinGap    time.Duration `mapstructure:"blink_min_gap"`
	BlinkMaxGap    time.Duration `mapstructure:"blink_max_gap"`
	BlinkHold      time.Duration `mapstructure:"blink_hold"`
}

// StorageConfig configures on-disk persistence.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// InterviewConfig configures interview flow detection and the
// default candidate profile.
type InterviewConfig struct {
	CandidateName    string   `mapstructure:"candidate_name"`
	Company          string   `mapstructure:"company"`
	Position         string   `mapstructure:"position"`
	TechnicalPhrases []string `mapstructure:"technical_phrases"`
	ClosingPhrases   []string `mapstructure:"closing_phrases"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			LiveKitURL:     "ws://localhost:7880",
			TokenTTL:       2 * time.Hour,
			ReconnectDelay: 5 * time.Second,
			MaxReconnects:  10,
		},
		Report: ReportConfig{
			Model:   "gpt-4o",
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Speech: SpeechConfig{
			CharDurationMS: 150,
			WordPauseMS:    50,
		},
		Avatar: AvatarConfig{
			ModelPath:      "",
			FadeDuration:   300 * time.Millisecond,
			StabilizeDelay: 20 * time.Millisecond,
			BlinkMinGap:    1 * time.Second,
			BlinkMaxGap:    5 * time.Second,
			BlinkHold:      100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Dir: "", // resolved to the config dir at load time
		},
		Interview: InterviewConfig{
			CandidateName: "Candidate",
			Company:       "Acme",
			Position:      "Software Engineer",
			TechnicalPhrases: []string{
				"review and describe the following code snippet",
			},
			ClosingPhrases: []string{
				"that concludes our interview",
				"thank you for your time today",
				"we'll be in touch",
			},
		},
	}
}

// Load reads configuration from file and environment. When dir is
// empty the default config dir under the user's home is used.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return cfg, err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("BAGELHACKS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// No config file yet, persist the defaults.
		if err := save(cfg, dir); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filepath.Join(dir, "data")
	}
	return cfg, nil
}

// Watch reloads the config whenever its file changes on disk and
// hands the fresh copy to onChange. Reload errors keep the previous
// config and are ignored.
func Watch(dir string, onChange func(*Config)) error {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(fsnotify.Event) {
		cfg := DefaultConfig()
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		if cfg.Storage.Dir == "" {
			cfg.Storage.Dir = filepath.Join(dir, "data")
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// Save writes the configuration to the default config dir.
func Save(cfg *Config) error {
	dir, err := DefaultDir()
	if err != nil {
		return err
	}
	return save(cfg, dir)
}

func save(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("session", cfg.Session)
	v.Set("report", cfg.Report)
	v.Set("server", cfg.Server)
	v.Set("speech", cfg.Speech)
	v.Set("avatar", cfg.Avatar)
	v.Set("storage", cfg.Storage)
	v.Set("interview", cfg.Interview)

	return v.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}

// DefaultDir returns the configuration directory path.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".bagelhacks"), nil
}
