package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address           string        `mapstructure:"address"`
	Port              int           `mapstructure:"port"`
	Mode              string        `mapstructure:"mode"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
}

// Addr returns the listen address, e.g. "0.0.0.0:3000".
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	DSN           string `mapstructure:"dsn"`
	LogMode       bool   `mapstructure:"log_mode"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// TTL is the lifetime of a session token.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration once per process. See Parse for the rules.
// Later calls return the result of the first, including its error.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = Parse(path)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Get returns the configuration loaded by Load.
func Get() *Config {
	return appConfig
}

// Parse reads configuration from path (default "config.yaml" in the working
// directory), then applies environment overrides such as TODO_SERVER_PORT.
// A missing file is not an error. Variables in a local .env file are loaded
// first without overriding the real environment.
func Parse(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/todos.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.mongo_uri", "")
	v.SetDefault("database.mongo_database", "todos")

	// keys need a default for AutomaticEnv to reach them through Unmarshal
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "todo-ledger")
	v.SetDefault("jwt.expire_minutes", 60)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("config: database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("config: database.dsn is required for postgres")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("config: database.mongo_uri is required for mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.JWT.ExpireMinutes <= 0 {
		c.JWT.ExpireMinutes = 60
	}
	return nil
}
