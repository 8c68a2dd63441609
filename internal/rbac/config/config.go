package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI string
	Port     string
	DBName   string

	UsersCollection       string
	RolesCollection       string
	PermissionsCollection string
	TeamsCollection       string
	AssignmentsCollection string
	AuditCollection       string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Permission resolution settings
	PermissionCacheTTL    time.Duration
	PermissionCacheSize   int
	MaxCustomRoles        int
	DefaultRoleName       string
	MaxHierarchyDepth     int
	HierarchySafetyFactor int
	NestedTeamAccess      bool
	AllowRoleDeletion     bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Port:     getEnv("PORT", "8080"),
		DBName:   getEnv("DB_NAME", "crm_db"),

		UsersCollection:       getEnv("COLLECTION_USERS", "users"),
		RolesCollection:       getEnv("COLLECTION_ROLES", "roles"),
		PermissionsCollection: getEnv("COLLECTION_PERMISSIONS", "permissions"),
		TeamsCollection:       getEnv("COLLECTION_TEAMS", "teams"),
		AssignmentsCollection: getEnv("COLLECTION_ROLE_ASSIGNMENTS", "role_assignments"),
		AuditCollection:       getEnv("COLLECTION_AUDIT_LOG", "audit_log"),

		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),

		PermissionCacheTTL:    getEnvDuration("PERMISSION_CACHE_TTL", time.Hour),
		PermissionCacheSize:   getEnvInt("PERMISSION_CACHE_SIZE", 10000),
		MaxCustomRoles:        getEnvInt("MAX_CUSTOM_ROLES", 50),
		DefaultRoleName:       getEnv("DEFAULT_ROLE_NAME", "user"),
		MaxHierarchyDepth:     getEnvInt("MAX_HIERARCHY_DEPTH", 5),
		HierarchySafetyFactor: getEnvInt("HIERARCHY_SAFETY_FACTOR", 2),
		NestedTeamAccess:      getEnvBool("NESTED_TEAM_ACCESS", false),
		AllowRoleDeletion:     getEnvBool("ALLOW_ROLE_DELETION", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.PermissionCacheTTL <= 0 {
		return fmt.Errorf("PERMISSION_CACHE_TTL must be positive")
	}
	if c.PermissionCacheSize <= 0 {
		return fmt.Errorf("PERMISSION_CACHE_SIZE must be positive")
	}
	if c.MaxCustomRoles < 0 {
		return fmt.Errorf("MAX_CUSTOM_ROLES must not be negative")
	}
	if c.DefaultRoleName == "" {
		return fmt.Errorf("DEFAULT_ROLE_NAME is required")
	}
	if c.MaxHierarchyDepth <= 0 {
		return fmt.Errorf("MAX_HIERARCHY_DEPTH must be positive")
	}
	if c.HierarchySafetyFactor <= 0 {
		return fmt.Errorf("HIERARCHY_SAFETY_FACTOR must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvBool(key string, fallback bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Allow duration strings like "30m"
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
