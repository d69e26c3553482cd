package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envFile = ".env"

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	CfgDB        ConfigDB      `yaml:"db"`
	CfgRedis     ConfigRedis   `yaml:"redis"`
	CfgCatalog   ConfigCatalog `yaml:"catalog"`
	CfgKafka     ConfigKafka   `yaml:"kafka"`
	CfgCache     ConfigCache   `yaml:"cache"`
	Storage      string        `yaml:"storage"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	ServerPort   string        `yaml:"srv_port"`
}

type ConfigDB struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Port     uint   `yaml:"port"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
}

type ConfigRedis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfigCatalog struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	EnforceStock bool          `yaml:"enforce_stock"`
}

type ConfigKafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// ConfigCache - кэш корзин в памяти процесса
type ConfigCache struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// DSN строка подключения к postgres
func (c ConfigDB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Login, c.Password, c.Database,
	)
}

// NewConfig читает yaml конфиг, затем переменные окружения (и .env, если он есть) перекрывают его
func NewConfig(configPath string) (*Config, error) {
	cfg, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	c := Config{
		Storage:    StorageRedis,
		ServerPort: ":8080",
		CfgRedis:   ConfigRedis{Addr: "redis:6379"},
		CfgCatalog: ConfigCatalog{Timeout: 5 * time.Second},
		CfgKafka:   ConfigKafka{Topic: "cart-events", GroupID: "cart-events-log"},
		CfgCache:   ConfigCache{Size: 1024, TTL: 10 * time.Minute},
	}
	err = yaml.Unmarshal(cfg, &c)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// loadDotEnv подгружает .env; отсутствие файла не ошибка, битый файл - ошибка
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("CART_SRV_PORT", &c.ServerPort)
	setString("CART_STORAGE", &c.Storage)
	setString("CART_REDIS_ADDR", &c.CfgRedis.Addr)
	setString("CART_REDIS_PASSWORD", &c.CfgRedis.Password)
	setString("CART_DB_HOST", &c.CfgDB.Host)
	setString("CART_DB_PASSWORD", &c.CfgDB.Password)
	setString("CATALOG_URL", &c.CfgCatalog.BaseURL)

	if v, ok := os.LookupEnv("CATALOG_ENFORCE_STOCK"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CATALOG_ENFORCE_STOCK: %w", err)
		}
		c.CfgCatalog.EnforceStock = b
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		c.CfgKafka.Brokers = strings.Split(v, ",")
	}

	return nil
}

func (c *Config) Validate() error {
	if c.CfgCatalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Storage != StorageRedis && c.Storage != StoragePostgres {
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	return nil
}
