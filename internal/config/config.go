package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/InQaaaaGit/usi_gateway.git/internal/usiclient"
)

// Адрес сервиса USI по умолчанию (тестовая среда 3PT)
const DefaultServiceURL = "https://3pt.portal.usi.gov.au/Service/v5/UsiService.svc"

// EnvDevelopment включает отладочные маршруты и подробный лог
const EnvDevelopment = "development"

// ErrInvalidTimeout возвращается для неположительного таймаута запросов к USI
var ErrInvalidTimeout = errors.New("request timeout must be positive")

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress     string        `env:"SERVER_ADDRESS"`                   // Адрес для запуска HTTP-сервера
	APIKey            string        `env:"API_KEY"`                          // Ключ доступа к /api/usi
	OrgCode           string        `env:"USI_ORG_CODE"`                     // Код организации в сервисе USI
	ServiceURL        string        `env:"USI_SERVICE_URL"`                  // Адрес SOAP сервиса USI
	ClientMode        string        `env:"USI_CLIENT_MODE"`                  // soap или memory
	RequestTimeout    time.Duration `env:"USI_REQUEST_TIMEOUT"`              // Таймаут запроса к сервису USI
	MemoryRecordsPath string        `env:"USI_MEMORY_RECORDS"`               // Файл с записями для режима memory
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:","` // Разрешенные источники CORS
	EnableHTTPS       string        `env:"ENABLE_HTTPS"`                     // Любое непустое значение включает HTTPS
	TLSCertFile       string        `env:"TLS_CERT_FILE"`                    // Путь к сертификату
	TLSKeyFile        string        `env:"TLS_KEY_FILE"`                     // Путь к ключу
	Environment       string        `env:"APP_ENV"`                          // production или development
	ConfigFile        string        `env:"CONFIG"`                           // Путь к JSON файлу конфигурации
}

// JSONConfig - содержимое JSON файла конфигурации. Поля nil не меняют Config.
type JSONConfig struct {
	ServerAddress     *string  `json:"server_address,omitempty"`
	APIKey            *string  `json:"api_key,omitempty"`
	OrgCode           *string  `json:"org_code,omitempty"`
	ServiceURL        *string  `json:"service_url,omitempty"`
	ClientMode        *string  `json:"client_mode,omitempty"`
	RequestTimeout    *string  `json:"request_timeout,omitempty"`
	MemoryRecordsPath *string  `json:"memory_records,omitempty"`
	AllowedOrigins    []string `json:"allowed_origins,omitempty"`
	EnableHTTPS       *bool    `json:"enable_https,omitempty"`
	TLSCertFile       *string  `json:"tls_cert_file,omitempty"`
	TLSKeyFile        *string  `json:"tls_key_file,omitempty"`
	Environment       *string  `json:"environment,omitempty"`
}

// defaultConfig возвращает конфигурацию со значениями по умолчанию
func defaultConfig() *Config {
	return &Config{
		ServerAddress:  ":8080",
		ServiceURL:     DefaultServiceURL,
		ClientMode:     usiclient.ModeSOAP,
		RequestTimeout: 30 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
		TLSCertFile:    "server.crt",
		TLSKeyFile:     "server.key",
		Environment:    "production",
	}
}

// NewConfig инициализирует конфигурацию.
// Приоритет: значения по умолчанию, JSON файл, флаги, переменные окружения.
func NewConfig() (*Config, error) {
	cfg := defaultConfig()

	// 1. Определение флагов командной строки
	var enableHTTPS bool
	flag.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	flag.StringVar(&cfg.APIKey, "k", cfg.APIKey, "Ключ доступа к API (env: API_KEY)")
	flag.StringVar(&cfg.OrgCode, "o", cfg.OrgCode, "Код организации USI (env: USI_ORG_CODE)")
	flag.StringVar(&cfg.ServiceURL, "u", cfg.ServiceURL, "Адрес SOAP сервиса USI (env: USI_SERVICE_URL)")
	flag.StringVar(&cfg.ClientMode, "m", cfg.ClientMode, "Режим клиента USI: soap или memory (env: USI_CLIENT_MODE)")
	flag.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "Таймаут запроса к USI (env: USI_REQUEST_TIMEOUT)")
	flag.StringVar(&cfg.MemoryRecordsPath, "f", cfg.MemoryRecordsPath, "Файл записей для режима memory (env: USI_MEMORY_RECORDS)")
	flag.BoolVar(&enableHTTPS, "s", false, "Включить HTTPS (env: ENABLE_HTTPS)")
	flag.StringVar(&cfg.Environment, "e", cfg.Environment, "Окружение: production или development (env: APP_ENV)")
	flag.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "Путь к JSON файлу конфигурации (env: CONFIG)")

	// 2. Парсинг флагов командной строки
	flag.Parse()

	// 3. JSON файл; повторный разбор флагов возвращает им приоритет над файлом
	configFile := cfg.ConfigFile
	if v, ok := os.LookupEnv("CONFIG"); ok {
		configFile = v
	}
	jsonConfig, err := loadJSONConfig(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyJSONConfig(jsonConfig); err != nil {
		return nil, err
	}
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	if enableHTTPS {
		cfg.EnableHTTPS = "true"
	}

	// 4. Парсинг переменных окружения (имеет наивысший приоритет)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadJSONConfig читает JSON файл конфигурации.
// Пустое имя или отсутствующий файл дают пустую конфигурацию.
func loadJSONConfig(filename string) (*JSONConfig, error) {
	cfg := &JSONConfig{}
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// applyJSONConfig переносит заданные в JSON значения в Config
func (c *Config) applyJSONConfig(j *JSONConfig) error {
	if j == nil {
		return nil
	}

	setString(&c.ServerAddress, j.ServerAddress)
	setString(&c.APIKey, j.APIKey)
	setString(&c.OrgCode, j.OrgCode)
	setString(&c.ServiceURL, j.ServiceURL)
	setString(&c.ClientMode, j.ClientMode)
	setString(&c.MemoryRecordsPath, j.MemoryRecordsPath)
	setString(&c.TLSCertFile, j.TLSCertFile)
	setString(&c.TLSKeyFile, j.TLSKeyFile)
	setString(&c.Environment, j.Environment)

	if j.RequestTimeout != nil {
		d, err := time.ParseDuration(*j.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", *j.RequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	if len(j.AllowedOrigins) > 0 {
		c.AllowedOrigins = j.AllowedOrigins
	}
	if j.EnableHTTPS != nil {
		if *j.EnableHTTPS {
			c.EnableHTTPS = "true"
		} else {
			c.EnableHTTPS = ""
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// IsHTTPSEnabled проверяет, включен ли HTTPS
func (c *Config) IsHTTPSEnabled() bool {
	return c.EnableHTTPS != ""
}

// IsDevelopment проверяет, запущено ли приложение в окружении разработки
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// Validate проверяет значения, без которых приложение не может стартовать.
// Пустой код организации допустим: такие запросы отклоняются при вызове.
func (c *Config) Validate() error {
	switch c.ClientMode {
	case usiclient.ModeSOAP, usiclient.ModeMemory:
	default:
		return fmt.Errorf("%w: %q", usiclient.ErrUnknownMode, c.ClientMode)
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
