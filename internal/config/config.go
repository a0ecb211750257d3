package config

// #region imports
import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// #endregion

// #region types

type DBConfig struct {
	Path string
}

type SimConfig struct {
	FixturePath  string
	PlayerTeamID string
	StartDate    string
}

type Config struct {
	Environment string
	DB          DBConfig
	Sim         SimConfig
}

// #endregion

// #region load

// Load reads configuration from app.env and the environment. Environment
// variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		DB: DBConfig{
			Path: v.GetString("DB_PATH"),
		},
		Sim: SimConfig{
			FixturePath:  v.GetString("SIM_FIXTURE_PATH"),
			PlayerTeamID: v.GetString("SIM_PLAYER_TEAM_ID"),
			StartDate:    v.GetString("SIM_START_DATE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "paddock.db"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Sim.StartDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.Sim.StartDate); err != nil {
			return fmt.Errorf("SIM_START_DATE must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// #endregion
