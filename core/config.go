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

// Conf is the application configuration, loaded once at init from defaults,
// an optional .env.<env> file and ENV-prefixed environment variables.
var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	Build    string

	AppName          string
	SecretKey        string
	FrontendBaseURL  string
	DefaultFromEmail string
	SendgridAPIKey   string
	RollbarToken     string
	DemoData         bool

	PasswordResetTimeoutDelta time.Duration

	Server struct {
		Host               string
		Addr               string
		JWTExpirationDelta time.Duration
	}

	Database struct {
		Engine     string // inmem | sqlite3 | postgres
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "w3+0q(h7#yg4=dz&u0xh2-h!x)#*c2(#$ceg8emy^57p5nb$r")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("demoData", false)
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("database.engine", "sqlite3")
	v.SetDefault("database.name", "darasa.db")
	v.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

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

	Conf = new(Config)
	if err := v.Unmarshal(Conf); err != nil {
		log.Fatalf("config.viper.Unmarshal: %v", err)
	}
}

// DatabaseDSN builds the connection string for the configured engine.
func (c *Config) DatabaseDSN() string {
	if c.Database.Engine == "sqlite3" {
		return c.Database.Name + "?_foreign_keys=on"
	}

	sslMode := "require"
	if c.Database.DisableTLS {
		sslMode = "disable"
	}
	parts := []string{
		"dbname=" + c.Database.Name,
		"sslmode=" + sslMode,
		"timezone=utc",
	}
	if c.Database.User != "" {
		parts = append(parts, "user="+c.Database.User)
	}
	if c.Database.Password != "" {
		parts = append(parts, "password="+c.Database.Password)
	}
	if c.Database.Host != "" {
		parts = append(parts, "host="+c.Database.Host)
	}
	if c.Database.Port != "" {
		parts = append(parts, "port="+c.Database.Port)
	}
	return strings.Join(parts, " ")
}
