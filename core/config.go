package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		UploadDir       string // pending files are spooled here until the draft is published
		MaxUploadSize   int64
	}

	RemoteConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	EmailConfig struct {
		DefaultFromEmail string
		NotifyEmail      string // publish & import reports; empty disables them
		SendgridAPIKey   string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		WorkDir      string
		RollbarToken string
		SecretKey    string // verifies the bearer tokens issued by the backend (HS256)
		Server       ServerConfig
		Remote       RemoteConfig
		Email        EmailConfig

		FrontendBaseURL string
	}
)

// DefaultFromEmail parses the configured sender; an invalid value falls back to the bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.Email.DefaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.Email.DefaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if any) and the environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
// Every key may be overridden with `<ENV>_<KEY>`, e.g. DEV_REMOTEBASEURL.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Masomo Authoring")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("secretKey", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverShutdownTimeout", 10*time.Second)
	v.SetDefault("uploadDir", filepath.Join(os.TempDir(), "masomo-uploads"))
	v.SetDefault("maxUploadSize", int64(512<<20))
	v.SetDefault("remoteBaseURL", "http://localhost:5000")
	v.SetDefault("remoteTimeout", 60*time.Second)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("notifyEmail", "")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("testMode", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		WorkDir:      wd,
		RollbarToken: v.GetString("rollbarToken"),
		SecretKey:    v.GetString("secretKey"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Address:         v.GetString("serverAddress"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			UploadDir:       v.GetString("uploadDir"),
			MaxUploadSize:   v.GetInt64("maxUploadSize"),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(v.GetString("remoteBaseURL"), "/"),
			Timeout: v.GetDuration("remoteTimeout"),
		},
		Email: EmailConfig{
			DefaultFromEmail: v.GetString("defaultFromEmail"),
			NotifyEmail:      v.GetString("notifyEmail"),
			SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		},
		FrontendBaseURL: v.GetString("frontendBaseURL"),
	}, nil
}
