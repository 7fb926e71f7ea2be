package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Optional integrations (mail, broker, Redis) may
// be left unset; the server degrades gracefully without them.
type Config struct {
	Port        string // HTTP port to listen on
	MongoURL    string // MongoDB connection string
	MongoUser   string // MongoDB username (optional)
	MongoPass   string // MongoDB password (optional)
	MongoDB     string // database name
	JWTSecret   string // secret used to sign auth tokens
	BcryptCost  int    // bcrypt cost for password hashing
	SendGridKey string // SendGrid API key (empty disables mail delivery)
	MailFrom    string // sender address for account mail
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Port:        envStr("APP_PORT", "3000"),
		MongoURL:    must("MONGODB_URL"),
		MongoUser:   os.Getenv("MONGODB_USER"),
		MongoPass:   os.Getenv("MONGODB_PASS"),
		MongoDB:     envStr("MONGODB_DB", "task-manager"),
		JWTSecret:   must("JWT_SECRET"),
		BcryptCost:  envInt("BCRYPT_COST", 8),
		SendGridKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:    envStr("MAIL_FROM", "vinaysudani9@gmail.com"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
