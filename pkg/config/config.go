package config

import "os"

type Config struct {
	Port        string
	Env         string
	MongoURI    string
	MongoDBName string
	JWTSecret   string
	RequireAuth bool
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("ENV", "development"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB", "blog_platform"),
		JWTSecret:   getEnv("JWT_SECRET", "supersecretjwtkey"),
		RequireAuth: getEnv("REQUIRE_AUTH", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
