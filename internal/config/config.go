package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the terrain walker
type Config struct {
	Window    WindowConfig
	Terrain   TerrainConfig
	Walker    WalkerConfig
	Telemetry TelemetryConfig
}

// WindowConfig holds display window configuration
type WindowConfig struct {
	Width     int    `validate:"gte=320"`
	Height    int    `validate:"gte=240"`
	Title     string `validate:"required"`
	TargetFPS int    `validate:"gte=0"`
}

// TerrainConfig holds the parameters of terrain generation and streaming.
// Seed fully determines the terrain: the same seed reproduces the same world
// across runs. A seed of 0 in the environment means "derive from the clock".
type TerrainConfig struct {
	Seed           int64
	ChunkSize      float64 `validate:"gt=0"`
	RenderDistance int     `validate:"gte=0"`
	GridDivisions  int     `validate:"gte=1"`
	HeightScale    float64 `validate:"gt=0"`
	NoiseScale     float64 `validate:"gt=0"`
}

// WalkerConfig holds character movement configuration
type WalkerConfig struct {
	MoveSpeed        float64 `validate:"gt=0"`
	SprintMultiplier float64 `validate:"gte=1"`
	JumpSpeed        float64 `validate:"gte=0"`
	Gravity          float64 `validate:"lt=0"`
	EyeHeight        float64 `validate:"gt=0"`
	MouseSensitivity float64 `validate:"gt=0"`
	CameraDistance   float64 `validate:"gte=0"`
}

// TelemetryConfig holds the debug telemetry server configuration.
// The server is off by default; when enabled it listens on Addr and streams
// read-only state (deltas, chunk geometry, profiler stats) to local viewers.
type TelemetryConfig struct {
	Enabled         bool
	Addr            string `validate:"required_if=Enabled true"`
	ProfilerEnabled bool
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and .env file
// It returns a Config struct with all settings populated
// The .env file is loaded from the current working directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Environment variables can still be set directly
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found (this is OK if using environment variables): %v", err)
	}

	config := &Config{
		Window: WindowConfig{
			Width:     getIntEnv("WINDOW_WIDTH", 1280),
			Height:    getIntEnv("WINDOW_HEIGHT", 720),
			Title:     getEnv("WINDOW_TITLE", "terrain-gen"),
			TargetFPS: getIntEnv("WINDOW_TARGET_FPS", 60),
		},
		Terrain: TerrainConfig{
			Seed:           getInt64Env("TERRAIN_SEED", 0),
			ChunkSize:      getFloatEnv("TERRAIN_CHUNK_SIZE", 10),
			RenderDistance: getIntEnv("TERRAIN_RENDER_DISTANCE", 3),
			GridDivisions:  getIntEnv("TERRAIN_GRID_DIVISIONS", 15),
			HeightScale:    getFloatEnv("TERRAIN_HEIGHT_SCALE", 2.5),
			NoiseScale:     getFloatEnv("TERRAIN_NOISE_SCALE", 0.1),
		},
		Walker: WalkerConfig{
			MoveSpeed:        getFloatEnv("WALKER_MOVE_SPEED", 6),
			SprintMultiplier: getFloatEnv("WALKER_SPRINT_MULTIPLIER", 1.8),
			JumpSpeed:        getFloatEnv("WALKER_JUMP_SPEED", 5.5),
			Gravity:          getFloatEnv("WALKER_GRAVITY", -18),
			EyeHeight:        getFloatEnv("WALKER_EYE_HEIGHT", 1.7),
			MouseSensitivity: getFloatEnv("WALKER_MOUSE_SENSITIVITY", 0.003),
			CameraDistance:   getFloatEnv("WALKER_CAMERA_DISTANCE", 6),
		},
		Telemetry: TelemetryConfig{
			Enabled:         getBoolEnv("TELEMETRY_ENABLED", false),
			Addr:            getEnv("TELEMETRY_ADDR", "127.0.0.1:8090"),
			ProfilerEnabled: getBoolEnv("PROFILER_ENABLED", false),
			ShutdownTimeout: getDurationEnv("TELEMETRY_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
	}

	// Seed 0 means "pick one": derive from the clock and log it so the run
	// can be reproduced later with TERRAIN_SEED.
	if config.Terrain.Seed == 0 {
		config.Terrain.Seed = time.Now().UnixNano()
		log.Printf("TERRAIN_SEED not set, derived seed %d from clock", config.Terrain.Seed)
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks all configuration values against their constraints and
// returns a single readable error listing every violation.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, validationMessage(fieldError))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validationMessage converts a validator field error into a readable message
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Namespace(), strings.ReplaceAll(fe.Param(), " ", "="))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Namespace(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Namespace(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

// Helper functions for environment variable access

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid float value for %s: %s, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return floatValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean value for %s: %s, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return boolValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration value for %s: %s, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return duration
}
