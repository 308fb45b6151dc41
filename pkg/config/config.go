// pkg/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aqua-invoicing/pkg/render"
	"github.com/aqua-invoicing/pkg/session"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server  ServerConfig        `mapstructure:"server" validate:"required"`
	Auth    session.Credentials `mapstructure:"auth" validate:"required"`
	Session SessionConfig       `mapstructure:"session" validate:"required"`
	Company render.Profile      `mapstructure:"company"`
	Render  RenderConfig        `mapstructure:"render" validate:"required"`
	Archive ArchiveConfig       `mapstructure:"archive"`
	Logging LoggingConfig       `mapstructure:"logging" validate:"required"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type SessionConfig struct {
	Store       string        `mapstructure:"store" validate:"oneof=memory postgres"`
	TTL         time.Duration `mapstructure:"ttl"`
	PostgresDSN string        `mapstructure:"postgres_dsn" validate:"required_if=Store postgres"`
}

type RenderConfig struct {
	MinRows   int               `mapstructure:"min_rows" validate:"gte=0,lte=50"`
	LogoPath  string            `mapstructure:"logo_path"`
	StampPath string            `mapstructure:"stamp_path"`
	PDF       render.PDFOptions `mapstructure:"pdf"`
}

// ArchiveConfig enables uploading every exported PDF to S3 when Bucket is set.
type ArchiveConfig struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region" validate:"required_with=Bucket"`
	Prefix string `mapstructure:"prefix"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// NewConfig loads .env, then config.yaml (from path, or the usual search
// locations), then AQUA_* environment variables, on top of the defaults.
func NewConfig(path string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/aqua-invoice")
	}

	v.SetEnvPrefix("AQUA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// A company block replaces the whole letterhead; decoding on top of the
	// default profile would merge its lists element by element.
	config := Default()
	config.Company = render.Profile{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if !v.IsSet("company") {
		config.Company = render.DefaultProfile()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Default returns the configuration used when nothing is overridden.
func Default() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Auth: session.Credentials{ID: session.DefaultID, Secret: session.DefaultSecret},
		Session: SessionConfig{
			Store: "memory",
			TTL:   7 * 24 * time.Hour,
		},
		Company: render.DefaultProfile(),
		Render: RenderConfig{
			MinRows: render.DefaultMinRows,
			PDF:     render.DefaultPDFOptions(),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// without a config file.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.secure_cookie", d.Server.SecureCookie)
	v.SetDefault("auth.id", d.Auth.ID)
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.postgres_dsn", "")
	v.SetDefault("render.min_rows", d.Render.MinRows)
	v.SetDefault("render.logo_path", "")
	v.SetDefault("render.stamp_path", "")
	v.SetDefault("render.pdf.page_size", d.Render.PDF.PageSize)
	v.SetDefault("render.pdf.orientation", d.Render.PDF.Orientation)
	v.SetDefault("render.pdf.margin_inches", d.Render.PDF.MarginInches)
	v.SetDefault("render.pdf.scale", d.Render.PDF.Scale)
	v.SetDefault("render.pdf.jpeg_quality", d.Render.PDF.JPEGQuality)
	v.SetDefault("render.pdf.font_path", "")
	v.SetDefault("render.pdf.bold_font_path", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.prefix", "invoices/")
	v.SetDefault("logging.level", d.Logging.Level)
}
