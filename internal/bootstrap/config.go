package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"checkers/internal/domain/board"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
	BoardSize        int           `mapstructure:"BOARD_SIZE"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	ChatHistoryLimit int64         `mapstructure:"CHAT_HISTORY_LIMIT"`

	RuleCaptureBackwards   bool `mapstructure:"RULE_CAPTURE_BACKWARDS"`
	RuleFlyingKings        bool `mapstructure:"RULE_FLYING_KINGS"`
	RuleCaptureAfterFarRow bool `mapstructure:"RULE_CAPTURE_AFTER_FAR_ROW"`
	RuleMandatoryCapture   bool `mapstructure:"RULE_MANDATORY_CAPTURE"`
	RuleMaximumCapture     bool `mapstructure:"RULE_MAXIMUM_CAPTURE"`
	RuleDiscardCaptured    bool `mapstructure:"RULE_DISCARD_CAPTURED"`
}

var defaults = map[string]any{
	"SERVER_PORT":        "8080",
	"REDIS_URL":          "localhost:6379",
	"REDIS_PASSWORD":     "",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "checkers",
	"LOCAL_CORS":         false,
	"BOARD_SIZE":         board.DefaultSize,
	"SESSION_TTL":        12 * time.Hour,
	"CHAT_HISTORY_LIMIT": 100,

	"RULE_CAPTURE_BACKWARDS":     true,
	"RULE_FLYING_KINGS":          true,
	"RULE_CAPTURE_AFTER_FAR_ROW": false,
	"RULE_MANDATORY_CAPTURE":     true,
	"RULE_MAXIMUM_CAPTURE":       true,
	"RULE_DISCARD_CAPTURED":      false,
}

// Setup reads the config file if there is one. Environment variables win over
// the file, the file wins over the defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultRules are the rules of a game whose creator did not pick any.
func (c Config) DefaultRules() board.Rules {
	return board.Rules{
		CaptureBackwards:   c.RuleCaptureBackwards,
		FlyingKings:        c.RuleFlyingKings,
		CaptureAfterFarRow: c.RuleCaptureAfterFarRow,
		MandatoryCapture:   c.RuleMandatoryCapture,
		MaximumCapture:     c.RuleMaximumCapture,
		DiscardCaptured:    c.RuleDiscardCaptured,
	}
}
