package config

import (
	"log"

	"rates-and-booking/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`

	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"` // bcrypt, see misc/hash-password

	StripeAPIKey string `mapstructure:"STRIPE_API_KEY"`
	SenderEmail  string `mapstructure:"SENDER_EMAIL"` // verified SES identity

	// Data files.
	PincodeCSVPath    string `mapstructure:"PINCODE_CSV_PATH"`
	MetroCitiesPath   string `mapstructure:"METRO_CITIES_PATH"`
	SpecialStatesPath string `mapstructure:"SPECIAL_STATES_PATH"`
	NameAliasesPath   string `mapstructure:"NAME_ALIASES_PATH"`

	Pricing models.PricingSettings `mapstructure:",squash"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		// A missing .env file is fine; real deployments use the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PINCODE_CSV_PATH", "data/pincode_master.csv")
	viper.SetDefault("METRO_CITIES_PATH", "data/metro_cities.json")
	viper.SetDefault("SPECIAL_STATES_PATH", "data/special_states.json")
	viper.SetDefault("NAME_ALIASES_PATH", "data/name_aliases.json")

	viper.SetDefault("DEFAULT_WEIGHT_SLAB_KG", 0.5)
	viper.SetDefault("ESCALATION_RATE", 0.15)
	viper.SetDefault("GST_RATE", 0.18)
	viper.SetDefault("VOLUMETRIC_DIVISOR", 5000)
}
