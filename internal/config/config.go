package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jengzang/records-drivecost/internal/models"
)

// Config 应用配置
type Config struct {
	Input     InputConfig            `yaml:"input"`
	Log       LogConfig              `yaml:"log"`
	Vehicle   VehicleConfig          `yaml:"vehicle"`
	Emissions EmissionsConfig        `yaml:"emissions"`
	Wear      WearConfig             `yaml:"wear"`
	Pricing   PricingConfig          `yaml:"pricing"`
	Fees      FeesConfig             `yaml:"fees"`
	Car       models.CarParams       `yaml:"car"`
	Insurance models.InsuranceParams `yaml:"insurance"`
	Server    ServerConfig           `yaml:"server"`
	Auth      AuthConfig             `yaml:"auth"`
	Database  DatabaseConfig         `yaml:"database"`
}

// InputConfig locates the export and inflation files
type InputConfig struct {
	TimelinePath  string `yaml:"timeline_path" default:"data/location-history.json" validate:"required"`
	InflationPath string `yaml:"inflation_path" default:"data/inflation_rate_year.csv" validate:"required"`
	Cutoff        string `yaml:"cutoff" default:"2024-02-01T06:00:00-07:00" validate:"required"` // segments at or before this instant are ignored
}

// LogConfig selects the zerolog level and output format
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

// VehicleConfig describes fuel economy and fuel prices
type VehicleConfig struct {
	MPG              float64            `yaml:"mpg" default:"24.4" validate:"gt=0"`
	MilesCorrection  float64            `yaml:"miles_correction" default:"1.0" validate:"gt=0"`
	Region           string             `yaml:"region" default:"CA"`
	FuelPrices       map[string]float64 `yaml:"fuel_prices" default:"{\"CA\": 4.5}"`
	DefaultFuelPrice float64            `yaml:"default_fuel_price" default:"4.5" validate:"gte=0"`
}

// EmissionsConfig holds emission factors and the regional baseline
type EmissionsConfig struct {
	CO2KgPerGallon       float64 `yaml:"co2_kg_per_gallon" default:"11.14" validate:"gte=0"`
	BrakeParticulatesMg  float64 `yaml:"brake_particulates_mg_per_mile" default:"25.85" validate:"gte=0"`
	TireParticulatesMg   float64 `yaml:"tire_particulates_mg_per_mile" default:"11.5" validate:"gte=0"`
	RegionalMilesPerYear float64 `yaml:"regional_miles_per_year" default:"10000" validate:"gte=0"`
	KilometersPerMile    float64 `yaml:"kilometers_per_mile" default:"1.6" validate:"gt=0"`
	PassengerVehicleType string  `yaml:"passenger_vehicle_type" default:"IN_PASSENGER_VEHICLE" validate:"required"`
}

// WearConfig prices maintenance, tires, brakes and parking
type WearConfig struct {
	MaintenancePerYear    float64 `yaml:"maintenance_per_year" default:"400" validate:"gte=0"`
	TireCost              float64 `yaml:"tire_cost" default:"400" validate:"gte=0"`
	TireLifeMiles         float64 `yaml:"tire_life_miles" default:"60000" validate:"gt=0"`
	BrakeCost             float64 `yaml:"brake_cost" default:"1000" validate:"gte=0"`
	BrakeLifeMiles        float64 `yaml:"brake_life_miles" default:"60000" validate:"gt=0"`
	ParkingPerMonth       float64 `yaml:"parking_per_month" default:"80" validate:"gte=0"`
	ReferenceMilesPerYear float64 `yaml:"reference_miles_per_year" default:"10000" validate:"gt=0"`
}

// PricingConfig overrides the national averages used by the cost engine
type PricingConfig struct {
	UsedBasePrice      float64 `yaml:"used_base_price" default:"25571" validate:"gt=0"`
	NewBasePrice       float64 `yaml:"new_base_price" default:"48644" validate:"gt=0"`
	UsedAveragePayment float64 `yaml:"used_average_payment" default:"523" validate:"gt=0"`
	NewAveragePayment  float64 `yaml:"new_average_payment" default:"735" validate:"gt=0"`
	FallbackShare      float64 `yaml:"fallback_share" default:"0.8" validate:"gt=0,lte=1"`
	MinModelYear       int     `yaml:"min_model_year" default:"1929" validate:"gt=0"`
	ReconcileTolerance float64 `yaml:"reconcile_tolerance" default:"1" validate:"gte=0"`
}

// FeesConfig holds insurance premiums and the registration fee
type FeesConfig struct {
	MinCoverageMonthly  float64 `yaml:"min_coverage_monthly" default:"50" validate:"gte=0"`
	FullCoverageMonthly float64 `yaml:"full_coverage_monthly" default:"190" validate:"gte=0"`
	RegistrationFee     float64 `yaml:"registration_fee" default:"289" validate:"gte=0"`
}

// ServerConfig configures the local report API
type ServerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Port            string        `yaml:"port" default:"127.0.0.1:8080" validate:"required"`
	RateLimit       int           `yaml:"rate_limit" default:"120" validate:"gt=0"`
	RateWindow      time.Duration `yaml:"rate_window" default:"1m" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s"`
}

// AuthConfig enables bearer-token auth when a secret is set
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// DatabaseConfig points the event index at a sqlite DSN
type DatabaseConfig struct {
	Path string `yaml:"path" default:"file::memory:?cache=shared"`
}

var validate = validator.New()

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// defaults are static tags, a failure here is a programming error
		panic(err)
	}
	return &cfg
}

// Load 加载配置: defaults, then the optional YAML file, then environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TIMELINE_PATH"); v != "" {
		c.Input.TimelinePath = v
	}
	if v := os.Getenv("INFLATION_PATH"); v != "" {
		c.Input.InflationPath = v
	}
	if v := os.Getenv("TIMELINE_CUTOFF"); v != "" {
		c.Input.Cutoff = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("VEHICLE_MPG"); v != "" {
		mpg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse VEHICLE_MPG: %w", err)
		}
		c.Vehicle.MPG = mpg
	}
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// FuelPrice returns the per-gallon fuel price for the configured region
func (c *Config) FuelPrice() float64 {
	if p, ok := c.Vehicle.FuelPrices[c.Vehicle.Region]; ok {
		return p
	}
	return c.Vehicle.DefaultFuelPrice
}
