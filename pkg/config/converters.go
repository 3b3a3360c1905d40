package config

import (
	"github.com/payvault-go/pkg/database"
	"github.com/payvault-go/pkg/logger"
)

func (c *DatabaseConfig) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:         c.Host,
		Port:         c.Port,
		User:         c.User,
		Password:     c.Password,
		Name:         c.Name,
		SSLMode:      c.SSLMode,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
	}
}

func (c *LoggerConfig) ToLoggerConfig() logger.Config {
	return logger.Config{
		Level:     c.Level,
		Format:    c.Format,
		Output:    c.Output,
		AddCaller: c.AddCaller,
	}
}
