package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		WorkDir          string
		DefaultFromEmail string
		EnrollmentPortal string
		RollbarToken     string
		SendgridApiKey   string

		Admin    AdminConfig
		Storage  StorageConfig
		Upload   UploadConfig
		Checkout CheckoutConfig
		Server   ServerConfig
	}

	// AdminConfig holds the fixed credential pair of the academy administrator.
	AdminConfig struct {
		ID       string
		Password string
	}

	StorageConfig struct {
		Engine     string // sqlite3 | postgres | memory
		DataDir    string
		Quota      int64 // bytes, summed over all records
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	UploadConfig struct {
		MaxSize int64 // bytes
		Timeout time.Duration
	}

	CheckoutConfig struct {
		Delay   time.Duration
		Timeout time.Duration
	}

	ServerConfig struct {
		Address         string
		DisableReqLogs  bool
		ShutdownTimeout time.Duration
	}
)

// Address returns the database host:port.
func (c StorageConfig) Address() string {
	return c.Host + ":" + c.Port
}

// SQLitePath is the file backing the sqlite3 engine.
func (c StorageConfig) SQLitePath() string {
	return filepath.Join(c.DataDir, c.Name+".db")
}

// NewConfig loads the app configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() (*Config, error) {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "ATF Academy")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("workDir", wd)
	v.SetDefault("defaultFromEmail", "noreply@atf.edu.in")
	v.SetDefault("enrollmentPortal", "https://wa.me/918209850312")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("adminId", "Panipuri05")
	v.SetDefault("adminPassword", "Panipuri05")
	v.SetDefault("storageEngine", "sqlite3")
	v.SetDefault("storageDataDir", filepath.Join(wd, "data"))
	v.SetDefault("storageQuota", 5*1024*1024)
	v.SetDefault("storageHost", "localhost")
	v.SetDefault("storagePort", "5432")
	v.SetDefault("storageName", "atf")
	v.SetDefault("storageUser", "")
	v.SetDefault("storagePassword", "")
	v.SetDefault("storageDisableTLS", true)
	v.SetDefault("uploadMaxSize", 5*1024*1024/2) // 2.5 MiB
	v.SetDefault("uploadTimeout", 30*time.Second)
	v.SetDefault("checkoutDelay", 2500*time.Millisecond)
	v.SetDefault("checkoutTimeout", 30*time.Second)
	v.SetDefault("serverAddress", "127.0.0.1:8000")
	v.SetDefault("serverDisableReqLogs", false)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.SetEnvPrefix(env)
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		WorkDir:          v.GetString("workDir"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		EnrollmentPortal: v.GetString("enrollmentPortal"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		Admin: AdminConfig{
			ID:       v.GetString("adminId"),
			Password: v.GetString("adminPassword"),
		},
		Storage: StorageConfig{
			Engine:     v.GetString("storageEngine"),
			DataDir:    v.GetString("storageDataDir"),
			Quota:      v.GetInt64("storageQuota"),
			Host:       v.GetString("storageHost"),
			Port:       v.GetString("storagePort"),
			Name:       v.GetString("storageName"),
			User:       v.GetString("storageUser"),
			Password:   v.GetString("storagePassword"),
			DisableTLS: v.GetBool("storageDisableTLS"),
		},
		Upload: UploadConfig{
			MaxSize: v.GetInt64("uploadMaxSize"),
			Timeout: v.GetDuration("uploadTimeout"),
		},
		Checkout: CheckoutConfig{
			Delay:   v.GetDuration("checkoutDelay"),
			Timeout: v.GetDuration("checkoutTimeout"),
		},
		Server: ServerConfig{
			Address:         v.GetString("serverAddress"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
	}, nil
}

// NewTestConfig returns a Config suitable for tests: in-memory storage, no delays.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "ATF Academy",
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		DefaultFromEmail: "noreply@atf.test",
		EnrollmentPortal: "https://portal.atf.test",
		Admin:            AdminConfig{ID: "admin", Password: "admin"},
		Storage:          StorageConfig{Engine: "memory", Name: "atf", Quota: 5 * 1024 * 1024},
		Upload:           UploadConfig{MaxSize: 5 * 1024 * 1024 / 2, Timeout: 5 * time.Second},
		Checkout:         CheckoutConfig{Timeout: 5 * time.Second},
		Server:           ServerConfig{Address: "127.0.0.1:0", DisableReqLogs: true, ShutdownTimeout: time.Second},
	}
}
