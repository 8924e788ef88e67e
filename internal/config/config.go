package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GIS      GISConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// GISConfig holds the remote GIS service configuration for the importer.
// Each URL points at a map service whose layer 0 is queried for a
// GeoJSON feature collection.
type GISConfig struct {
	ParcelURL  string
	VacantURL  string
	ZoningURL  string
	Timeout    time.Duration
	MaxRecords int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present, then viper reads the
// process environment with development defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "landmap")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("GIS_PARCEL_URL", "https://gis.charlottenc.gov/arcgis/rest/services/CLT_Ex/CLTEx_MoreInfo/MapServer")
	v.SetDefault("GIS_VACANT_URL", "https://gis.charlottenc.gov/arcgis/rest/services/PLN/VacantLand/MapServer")
	v.SetDefault("GIS_ZONING_URL", "https://gis.charlottenc.gov/arcgis/rest/services/PLN/Zoning/MapServer")
	v.SetDefault("GIS_TIMEOUT_SECONDS", 30)
	v.SetDefault("GIS_MAX_RECORDS", 1000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		GIS: GISConfig{
			ParcelURL:  v.GetString("GIS_PARCEL_URL"),
			VacantURL:  v.GetString("GIS_VACANT_URL"),
			ZoningURL:  v.GetString("GIS_ZONING_URL"),
			Timeout:    time.Duration(v.GetInt("GIS_TIMEOUT_SECONDS")) * time.Second,
			MaxRecords: v.GetInt("GIS_MAX_RECORDS"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if c.GIS.ParcelURL == "" {
		return fmt.Errorf("GIS_PARCEL_URL is required")
	}
	if c.GIS.VacantURL == "" {
		return fmt.Errorf("GIS_VACANT_URL is required")
	}
	if c.GIS.ZoningURL == "" {
		return fmt.Errorf("GIS_ZONING_URL is required")
	}
	if c.GIS.Timeout <= 0 {
		return fmt.Errorf("GIS_TIMEOUT_SECONDS must be positive")
	}
	if c.GIS.MaxRecords < 1 {
		return fmt.Errorf("GIS_MAX_RECORDS must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
