package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the portal.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Database
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// JWT
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Seeded administrator account
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// Rate limiting
	RateLimitWindowMS int `mapstructure:"RATE_LIMIT_WINDOW_MS"`
	RateLimitMax      int `mapstructure:"RATE_LIMIT_MAX_REQUESTS"`

	// Counseling simulation delays (milliseconds)
	MatchDelayMS    int `mapstructure:"COUNSELOR_MATCH_DELAY_MS"`
	ReplyMinDelayMS int `mapstructure:"COUNSELOR_REPLY_MIN_DELAY_MS"`
	ReplyMaxDelayMS int `mapstructure:"COUNSELOR_REPLY_MAX_DELAY_MS"`

	// Crisis keyword policy. Comma separated, overridable without a rebuild.
	CrisisKeywords string `mapstructure:"CRISIS_KEYWORDS"`

	// Registration e-mail domain allow-list, comma separated.
	AllowedEmailDomains string `mapstructure:"ALLOWED_EMAIL_DOMAINS"`
}

// LoadConfig reads configuration from a .env file or the environment.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("ADMIN_EMAIL", "admin@ust-legazpi.edu.ph")
	viper.SetDefault("RATE_LIMIT_WINDOW_MS", 15*60*1000)
	viper.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	viper.SetDefault("COUNSELOR_MATCH_DELAY_MS", 2000)
	viper.SetDefault("COUNSELOR_REPLY_MIN_DELAY_MS", 1000)
	viper.SetDefault("COUNSELOR_REPLY_MAX_DELAY_MS", 3000)
	viper.SetDefault("CRISIS_KEYWORDS", "suicide,kill myself,end it all,hurt myself,can't go on,want to die")
	viper.SetDefault("ALLOWED_EMAIL_DOMAINS", "ust-legazpi.edu.ph,ustl.edu.ph")

	err = viper.ReadInConfig()
	if err != nil {
		// The config file is optional, the environment alone is enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}

// GetDBConnString returns the MySQL DSN.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString returns the Redis address.
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// CrisisKeywordList splits the configured crisis keyword policy.
func (c *Config) CrisisKeywordList() []string {
	return splitTrimmed(c.CrisisKeywords)
}

// EmailDomainList splits the registration domain allow-list.
func (c *Config) EmailDomainList() []string {
	return splitTrimmed(c.AllowedEmailDomains)
}

func splitTrimmed(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
