package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smukkama/lift-analyzer/internal/outlier"
)

type Config struct {
	Input    InputConfig
	Outlier  OutlierConfig
	Reps     RepsConfig
	Display  DisplayConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type InputConfig struct {
	Path              string
	OutlierOutputPath string
}

type OutlierConfig struct {
	Threshold float64
	Columns   []string
}

// RepsConfig holds the repetition counter settings. Profiles override
// Cutoff/Order/Column for individual exercise labels.
type RepsConfig struct {
	SampleSpacing time.Duration
	Cutoff        float64
	Order         int
	Column        string
	ExcludeLabel  string
	Estimate      bool
	Profiles      map[string]ProfileConfig
}

type ProfileConfig struct {
	Cutoff float64
	Order  int
	Column string
}

type DisplayConfig struct {
	Precision int
	Padding   int
}

type DatabaseConfig struct {
	Enabled       bool
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicRuns     string
	NumPartitions int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	profiles, err := ParseProfiles(getEnv("REPS_PROFILES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid REPS_PROFILES: %w", err)
	}

	config := &Config{
		Input: InputConfig{
			Path:              getEnv("INPUT_PATH", "data/cleaned_file.csv"),
			OutlierOutputPath: getEnv("OUTLIER_OUTPUT_PATH", "cleaned_file_outlier.csv"),
		},
		Outlier: OutlierConfig{
			Threshold: getEnvAsFloat("OUTLIER_THRESHOLD", outlier.DefaultThreshold),
			Columns:   getEnvAsList("OUTLIER_COLUMNS", append([]string(nil), outlier.DefaultColumns...)),
		},
		Reps: RepsConfig{
			SampleSpacing: getEnvAsDuration("REPS_SAMPLE_SPACING", 200*time.Millisecond),
			Cutoff:        getEnvAsFloat("REPS_CUTOFF", 0.4),
			Order:         getEnvAsInt("REPS_ORDER", 10),
			Column:        getEnv("REPS_COLUMN", "acc_r"),
			ExcludeLabel:  getEnv("REPS_EXCLUDE_LABEL", "rest"),
			Estimate:      getEnvAsBool("REPS_ESTIMATE", false),
			Profiles:      profiles,
		},
		Display: DisplayConfig{
			Precision: getEnvAsInt("DISPLAY_PRECISION", 3),
			Padding:   getEnvAsInt("DISPLAY_PADDING", 2),
		},
		Database: DatabaseConfig{
			Enabled:       getEnvAsBool("DB_ENABLED", false),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "lift_user"),
			Password:      getEnv("DB_PASSWORD", "lift_pass"),
			DBName:        getEnv("DB_NAME", "lift_db"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicRuns:     getEnv("KAFKA_TOPIC_RUNS", "lift.analysis.runs"),
			NumPartitions: getEnvAsInt("KAFKA_NUM_PARTITIONS", 1),
		},
	}

	return config, nil
}

// ParseProfiles parses "label=cutoff:order[:column]" entries separated by commas,
// e.g. "squat=0.35:10,row=0.65:10:gyr_x".
func ParseProfiles(s string) (map[string]ProfileConfig, error) {
	profiles := make(map[string]ProfileConfig)
	if strings.TrimSpace(s) == "" {
		return profiles, nil
	}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		label, spec, ok := strings.Cut(entry, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("profile %q: expected label=cutoff:order[:column]", entry)
		}

		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("profile %q: expected cutoff:order[:column]", entry)
		}

		cutoff, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("profile %q: invalid cutoff: %w", entry, err)
		}
		order, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("profile %q: invalid order: %w", entry, err)
		}

		profile := ProfileConfig{Cutoff: cutoff, Order: order}
		if len(parts) == 3 {
			profile.Column = strings.TrimSpace(parts[2])
		}
		profiles[label] = profile
	}

	return profiles, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
