package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	serverConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	dbConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	storageConfig struct {
		Engine             string // postgres | memory
		SettingsCachePath  string
		ImagesBackend      string // local | supabase
		ImagesDir          string
		ImagesBaseURL      string
		ImagesMaxDimension int
		SupabaseURL        string
		SupabaseKey        string
		SupabaseBucket     string
	}

	Config struct {
		AppName                   string
		Build                     string
		Env                       string
		Debug                     bool
		TestMode                  bool
		SecretKey                 string
		FrontendBaseURL           string
		PasswordResetTimeoutDelta time.Duration
		RollbarToken              string
		SendgridApiKey            string

		Server   serverConfig
		Database dbConfig
		Storage  storageConfig

		defaultFromEmail string
	}
)

func (c serverConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c dbConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DefaultFromEmail parses the configured sender, falling back to the raw value as address.
func (c Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	return *addr
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Wittayakom")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("secretKey", "k2x!v0-7_q#t9@wittayakom$9f8d=r3m^u&8j+e)0lp5a1z")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("defaultFromEmail", "Wittayakom <noreply@localhost>")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server_host", "")
	v.SetDefault("server_port", "8000")
	v.SetDefault("server_debugHost", "localhost:4000")
	v.SetDefault("server_shutdownTimeout", 5*time.Second)
	v.SetDefault("server_jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server_jwtRefreshExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database_engine", "postgres")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", "5432")
	v.SetDefault("database_name", "wittayakom")
	v.SetDefault("database_user", "wittayakom")
	v.SetDefault("database_password", "wittayakom")
	v.SetDefault("database_adminUser", "")
	v.SetDefault("database_adminPassword", "")
	v.SetDefault("database_disableTLS", env == "DEV" || env == "TEST")

	v.SetDefault("storage_engine", "postgres")
	v.SetDefault("storage_settingsCachePath", filepath.Join(os.TempDir(), "school_settings_cache.json"))
	v.SetDefault("storage_imagesBackend", "local")
	v.SetDefault("storage_imagesDir", filepath.Join(os.TempDir(), "wittayakom-media"))
	v.SetDefault("storage_imagesBaseURL", "/media")
	v.SetDefault("storage_imagesMaxDimension", 1600)
	v.SetDefault("storage_supabaseURL", "")
	v.SetDefault("storage_supabaseKey", "")
	v.SetDefault("storage_supabaseBucket", "image")

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

	return &Config{
		AppName:                   v.GetString("appName"),
		Build:                     v.GetString("build"),
		Env:                       env,
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		SecretKey:                 v.GetString("secretKey"),
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		RollbarToken:              v.GetString("rollbarToken"),
		SendgridApiKey:            v.GetString("sendgridApiKey"),
		defaultFromEmail:          v.GetString("defaultFromEmail"),
		Server: serverConfig{
			Host:                      v.GetString("server_host"),
			Port:                      v.GetString("server_port"),
			DebugHost:                 v.GetString("server_debugHost"),
			ShutdownTimeout:           v.GetDuration("server_shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server_jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server_jwtRefreshExpirationDelta"),
		},
		Database: dbConfig{
			Engine:        v.GetString("database_engine"),
			Host:          v.GetString("database_host"),
			Port:          v.GetString("database_port"),
			Name:          v.GetString("database_name"),
			User:          v.GetString("database_user"),
			Password:      v.GetString("database_password"),
			AdminUser:     v.GetString("database_adminUser"),
			AdminPassword: v.GetString("database_adminPassword"),
			DisableTLS:    v.GetBool("database_disableTLS"),
		},
		Storage: storageConfig{
			Engine:             v.GetString("storage_engine"),
			SettingsCachePath:  v.GetString("storage_settingsCachePath"),
			ImagesBackend:      v.GetString("storage_imagesBackend"),
			ImagesDir:          v.GetString("storage_imagesDir"),
			ImagesBaseURL:      v.GetString("storage_imagesBaseURL"),
			ImagesMaxDimension: v.GetInt("storage_imagesMaxDimension"),
			SupabaseURL:        v.GetString("storage_supabaseURL"),
			SupabaseKey:        v.GetString("storage_supabaseKey"),
			SupabaseBucket:     v.GetString("storage_supabaseBucket"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests. It never touches the environment.
func NewTestConfig() *Config {
	return &Config{
		AppName:                   "Wittayakom",
		Build:                     "test",
		Env:                       "TEST",
		Debug:                     false,
		TestMode:                  true,
		SecretKey:                 "secret",
		FrontendBaseURL:           "http://localhost:8000",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		defaultFromEmail:          "Wittayakom <noreply@test.local>",
		Server: serverConfig{
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Storage: storageConfig{
			Engine:             "memory",
			SettingsCachePath:  filepath.Join(os.TempDir(), "school_settings_cache_test.json"),
			ImagesBackend:      "local",
			ImagesDir:          filepath.Join(os.TempDir(), "wittayakom-media-test"),
			ImagesBaseURL:      "/media",
			ImagesMaxDimension: 1600,
		},
	}
}
