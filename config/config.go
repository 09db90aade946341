package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	JWT       JWTConfig
	Roles     RoleConfig
	Firebase  FirebaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

// StoreConfig selects and parameterizes the record store backend.
// Backend is one of: memory, file, firestore, postgres.
type StoreConfig struct {
	Backend     string
	FilePath    string
	DatabaseURL string
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

// RoleConfig holds the shared-secret password per role. Values starting with
// "$2" are treated as bcrypt hashes; anything else is compared verbatim.
type RoleConfig struct {
	GatePassword    string
	SCMPassword     string
	ParkingPassword string
	MasterPassword  string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Host:        getEnv("HOST", "0.0.0.0"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", "memory"),
			FilePath:    getEnv("STORE_FILE_PATH", "./trucks.json"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", "dev-secret-key"),
			Expiration:             parseDuration(getEnv("JWT_EXPIRATION", "8h"), 8*time.Hour),
			RefreshTokenExpiration: parseDuration(getEnv("REFRESH_TOKEN_EXPIRATION", "7d"), 7*24*time.Hour),
		},
		Roles: RoleConfig{
			GatePassword:    getEnv("GATE_PASSWORD", "gate123"),
			SCMPassword:     getEnv("SCM_PASSWORD", "scm2025"),
			ParkingPassword: getEnv("PARKING_PASSWORD", "parking123"),
			MasterPassword:  getEnv("MASTER_PASSWORD", "master123"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./serviceAccountKey.json"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		RateLimit: RateLimitConfig{
			Requests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
			Window:   parseDuration(getEnv("RATE_LIMIT_WINDOW", "60"), 60*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	// Handle simple formats like "30m", "7d", "60"
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// If it's just a number, assume seconds
	if i, err := strconv.Atoi(s); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	result := []string{}
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		if i < end {
			result = append(result, s[i:end])
		}
		i = end + 1
	}
	return result
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) Validate() {
	if c.JWT.Secret == "dev-secret-key" && c.IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}
	switch c.Store.Backend {
	case "memory", "file":
	case "firestore":
		if c.Firebase.ProjectID == "" {
			log.Fatal("FIREBASE_PROJECT_ID must be set for the firestore backend")
		}
		if _, err := os.Stat(c.Firebase.CredentialsPath); os.IsNotExist(err) {
			log.Fatalf("Firebase credentials file not found: %s", c.Firebase.CredentialsPath)
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			log.Fatal("DATABASE_URL must be set for the postgres backend")
		}
	default:
		log.Fatalf("Unknown STORE_BACKEND: %s (expected memory, file, firestore or postgres)", c.Store.Backend)
	}
	if c.IsProduction() {
		defaults := map[string]string{
			"GATE_PASSWORD":    "gate123",
			"SCM_PASSWORD":     "scm2025",
			"PARKING_PASSWORD": "parking123",
			"MASTER_PASSWORD":  "master123",
		}
		current := map[string]string{
			"GATE_PASSWORD":    c.Roles.GatePassword,
			"SCM_PASSWORD":     c.Roles.SCMPassword,
			"PARKING_PASSWORD": c.Roles.ParkingPassword,
			"MASTER_PASSWORD":  c.Roles.MasterPassword,
		}
		for key, def := range defaults {
			if current[key] == def {
				log.Fatalf("%s must be changed from its default in production", key)
			}
		}
	}
}
