package config

import "github.com/lofoneh/usersvc/pkg/database"

// Database returns the connection settings for database.OpenPostgres.
func (c *Config) Database() database.Settings {
	return database.Settings{
		URL:             c.DatabaseURL,
		Host:            c.DBHost,
		Port:            c.DBPort,
		Name:            c.DBName,
		User:            c.DBUser,
		Password:        c.DBPassword,
		SSLMode:         c.DBSSLMode,
		ConnectTimeout:  c.DBConnectTimeout,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectRetries:  c.DBConnectRetries,
		QueryLog:        c.AppEnv == "development" || c.AppEnv == "test",
	}
}
