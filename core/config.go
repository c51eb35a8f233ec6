package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// build is the git version of this application. It is set using build flags in the makefile.
var build = "develop"

type (
	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	StateConfig struct {
		// Backend selects the snapshot repository implementation: "file", "memory" or "postgres".
		Backend string
		Dir     string

		Database DatabaseConfig
	}

	DatabaseConfig struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}

	AIConfig struct {
		BaseURL    string
		CanisterID string
		Timeout    time.Duration
	}

	AccountConfig struct {
		// StartingKP is credited to every freshly created account.
		StartingKP int
		// AllowRelogin lets Login replace an existing account instead of failing.
		AllowRelogin bool
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string

		AppName      string
		SecretKey    string
		RollbarToken string

		Server  ServerConfig
		State   StateConfig
		AI      AIConfig
		Account AccountConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the application configuration: defaults first, then an optional
// config/.env.<env> file, then environment variables prefixed with the current ENV.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "IntegralForce")
	v.SetDefault("secretKey", "x#2m)d&1yru+k$8ph-qz(w7vgc^e!t5b9a4s_j6n0lfo3i*q")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("stateBackend", "file")
	v.SetDefault("stateDir", filepath.Join(Getwd(), "state"))
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "integralforce")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("aiBaseURL", "http://localhost:4943")
	v.SetDefault("aiCanisterID", "integralforce_backend")
	v.SetDefault("aiTimeout", 30*time.Second)
	v.SetDefault("startingKP", 1)
	v.SetDefault("allowRelogin", false)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     testMode,
		Env:          env,
		Build:        build,
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		State: StateConfig{
			Backend: v.GetString("stateBackend"),
			Dir:     v.GetString("stateDir"),
			Database: DatabaseConfig{
				Engine:     v.GetString("dbEngine"),
				Name:       v.GetString("dbName"),
				User:       v.GetString("dbUser"),
				Password:   v.GetString("dbPassword"),
				Host:       v.GetString("dbHost"),
				Port:       v.GetString("dbPort"),
				DisableTLS: v.GetBool("dbDisableTLS"),
			},
		},
		AI: AIConfig{
			BaseURL:    v.GetString("aiBaseURL"),
			CanisterID: v.GetString("aiCanisterID"),
			Timeout:    v.GetDuration("aiTimeout"),
		},
		Account: AccountConfig{
			StartingKP:   v.GetInt("startingKP"),
			AllowRelogin: v.GetBool("allowRelogin"),
		},
	}
}

// Getwd returns the working directory; it dies on failure.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(fmt.Errorf("config.Getwd: %v", err))
	}
	return wd
}
