package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Line struct {
		ChannelSecret      string `yaml:"channel_secret"`
		ChannelAccessToken string `yaml:"channel_access_token"`
	} `yaml:"line"`

	SlipOK struct {
		Endpoint       string `yaml:"endpoint"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"slipok"`

	StatusAPI struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"status_api"`

	Storage struct {
		Type      string `yaml:"type"` // local, s3
		BasePath  string `yaml:"base_path"`
		BaseURL   string `yaml:"base_url"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		AlertEmail   string `yaml:"alert_email"`
	} `yaml:"email"`

	Billing struct {
		TickSeconds int `yaml:"tick_seconds"`
		BandSeconds int `yaml:"band_seconds"`
	} `yaml:"billing"`
}

// SlipOKTimeout returns the verification call timeout.
func (c *Config) SlipOKTimeout() time.Duration {
	return time.Duration(c.SlipOK.TimeoutSeconds) * time.Second
}

// StatusAPITimeout returns the status-toggle call timeout.
func (c *Config) StatusAPITimeout() time.Duration {
	return time.Duration(c.StatusAPI.TimeoutSeconds) * time.Second
}

// BillingTick returns the scheduler tick period.
func (c *Config) BillingTick() time.Duration {
	return time.Duration(c.Billing.TickSeconds) * time.Second
}

// BillingBand returns the window width after each schedule boundary.
func (c *Config) BillingBand() time.Duration {
	return time.Duration(c.Billing.BandSeconds) * time.Second
}

var AppConfig *Config

func LoadConfig() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment-variable mode (tests and container deployments).
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Line.ChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	cfg.Line.ChannelAccessToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	cfg.SlipOK.Endpoint = os.Getenv("SLIPOK_ENDPOINT")
	cfg.SlipOK.APIKey = os.Getenv("SLIPOK_API_KEY")
	cfg.StatusAPI.URL = os.Getenv("STATUS_API_URL")
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = os.Getenv("STORAGE_BASE_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.SlipOK.TimeoutSeconds == 0 {
		cfg.SlipOK.TimeoutSeconds = 15
	}
	if cfg.StatusAPI.TimeoutSeconds == 0 {
		cfg.StatusAPI.TimeoutSeconds = 10
	}
	if cfg.Billing.TickSeconds == 0 {
		cfg.Billing.TickSeconds = 60
	}
	if cfg.Billing.BandSeconds == 0 {
		cfg.Billing.BandSeconds = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
