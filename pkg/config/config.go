package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Vault        VaultConfig        `mapstructure:"vault"`
	Certificates CertificatesConfig `mapstructure:"certificates"`
	Gateways     GatewaysConfig     `mapstructure:"gateways"`
	Logger       LoggerConfig       `mapstructure:"logger"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// VaultConfig holds the key material used to derive the secret-field
// encryption key. Key may be any length; derivation normalizes it.
type VaultConfig struct {
	Key string `mapstructure:"key"`
}

// CertificatesConfig points at the root directory for tenant-scoped
// client certificate and private key material. Must not be inside any
// publicly served path.
type CertificatesConfig struct {
	Dir string `mapstructure:"dir"`
}

type GatewaysConfig struct {
	Azul           AzulConfig `mapstructure:"azul"`
	RequestTimeout int        `mapstructure:"request_timeout"`
}

type AzulConfig struct {
	SandboxURL    string `mapstructure:"sandbox_url"`
	ProductionURL string `mapstructure:"production_url"`
}

type LoggerConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	AddCaller bool   `mapstructure:"add_caller"`
}

func Load(serviceName string) (*Config, error) {
	viper.SetConfigName(serviceName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/payvault")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("PAYVAULT")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.shutdown_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "payvault")
	viper.SetDefault("database.password", "payvault123")
	viper.SetDefault("database.name", "payvault")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 25)

	viper.SetDefault("vault.key", "development-vault-key-change-in-production")

	viper.SetDefault("certificates.dir", "/var/lib/payvault/certificates")

	viper.SetDefault("gateways.azul.sandbox_url", "https://pruebas.azul.com.do")
	viper.SetDefault("gateways.azul.production_url", "https://pagos.azul.com.do")
	viper.SetDefault("gateways.request_timeout", 30)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stdout")
	viper.SetDefault("logger.add_caller", true)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
