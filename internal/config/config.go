package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

type Config struct {
	Port      string
	Storage   string
	MongoURI  string
	DBName    string
	Seed      bool
	RateLimit float64
	RateBurst int
	GinMode   string
}

// Load reads configuration from command-line flags, the environment and an
// optional .env file, in that order of precedence.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("inventory", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	flags.String("port", "8080", "HTTP listen port")
	flags.String("storage", StorageMemory, "storage engine: memory or mongo")
	flags.String("mongo-uri", "", "MongoDB connection string (storage=mongo)")
	flags.String("db-name", "inventory", "MongoDB database name (storage=mongo)")
	flags.Bool("seed", true, "load initial products into an empty collection")
	flags.Float64("rate-limit", 0, "requests per second allowed, 0 disables limiting")
	flags.Int("rate-burst", 20, "burst size for the rate limiter")
	flags.String("gin-mode", "release", "gin mode: debug, release or test")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", *envFile, err)
		}
		log.Println(".env not loaded:", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for _, name := range []string{
		"port", "storage", "mongo-uri", "db-name", "seed", "rate-limit", "rate-burst", "gin-mode",
	} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:      strings.TrimSpace(v.GetString("port")),
		Storage:   strings.ToLower(strings.TrimSpace(v.GetString("storage"))),
		MongoURI:  strings.TrimSpace(v.GetString("mongo_uri")),
		DBName:    strings.TrimSpace(v.GetString("db_name")),
		Seed:      v.GetBool("seed"),
		RateLimit: v.GetFloat64("rate_limit"),
		RateBurst: v.GetInt("rate_burst"),
		GinMode:   strings.TrimSpace(v.GetString("gin_mode")),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT: required"))
	}

	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI: required when STORAGE=mongo"))
		}
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME: required when STORAGE=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE: unknown engine %q", c.Storage))
	}

	if c.RateLimit < 0 {
		errs = append(errs, errors.New("RATE_LIMIT: must not be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		errs = append(errs, errors.New("RATE_BURST: must be at least 1 when RATE_LIMIT is set"))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE: unknown mode %q", c.GinMode))
	}

	return errors.Join(errs...)
}
