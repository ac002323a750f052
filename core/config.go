package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all process-wide settings. It is loaded once at startup and
// passed by reference to whatever needs it; there is no ambient global.
type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// APIBaseURL is the root of the remote REST API, e.g. "https://api.darasa.app/api".
	APIBaseURL string

	// RequestTimeout applies to every outbound call; zero leaves the
	// transport default in place.
	RequestTimeout time.Duration

	// ActiveRolePath is where the dashboard role selection is persisted
	// across sessions. Empty disables persistence.
	ActiveRolePath string

	RollbarToken string
}

// LoadConfig reads configuration from the environment (and an optional
// config/.env.<env> file) into a Config. ENV selects the variable prefix:
// DEV (default), TEST, QA or PROD.
func LoadConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("apiBaseUrl", "http://localhost:5000/api")
	v.SetDefault("requestTimeout", time.Duration(0))
	v.SetDefault("activeRolePath", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:            env,
		Debug:          v.GetBool("debug"),
		TestMode:       v.GetBool("testMode"),
		AppName:        v.GetString("appName"),
		Build:          v.GetString("build"),
		APIBaseURL:     strings.TrimRight(v.GetString("apiBaseUrl"), "/"),
		RequestTimeout: v.GetDuration("requestTimeout"),
		ActiveRolePath: v.GetString("activeRolePath"),
		RollbarToken:   v.GetString("rollbarToken"),
	}
}
