package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Console holds the settings of the management console server.
type Console struct {
	ListenAddr    string
	APIBaseURL    string
	APITimeout    time.Duration
	SessionSecret string
	PollInterval  time.Duration
	ActivityDB    string
}

// Backend holds the settings of the reference REST backend.
type Backend struct {
	Addr              string
	DatabaseURL       string
	JWTSecret         string
	TokenTTL          time.Duration
	AgentPort         string
	SweepInterval     time.Duration
	MidtransServerKey string
	MidtransClientKey string
	MidtransEnv       midtrans.EnvironmentType
	CORSOrigins       []string
}

// Backup holds the Backblaze B2 credentials used by cmd/backup.
type Backup struct {
	DatabaseURL string
	B2KeyID     string
	B2AppKey    string
	B2Bucket    string
}

// loadEnv reads .env from the working directory if there is one.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Can't find .env file, using environment variables from system")
	}
}

func LoadConsole() Console {
	loadEnv()
	return Console{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		APIBaseURL:    strings.TrimRight(getenv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		APITimeout:    duration("API_TIMEOUT", 10*time.Second),
		SessionSecret: getenv("SESSION_SECRET", "change-me-console-secret"),
		PollInterval:  duration("POLL_INTERVAL", 30*time.Second),
		ActivityDB:    getenv("ACTIVITY_DB", "console.db"),
	}
}

func LoadBackend() Backend {
	loadEnv()
	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Backend{
		Addr:              getenv("BACKEND_ADDR", ":5000"),
		DatabaseURL:       getenv("DATABASE_URL", "netcafe.db"),
		JWTSecret:         getenv("JWT_SECRET", "change-me-jwt-secret"),
		TokenTTL:          duration("TOKEN_TTL", 8*time.Hour),
		AgentPort:         os.Getenv("AGENT_PORT"),
		SweepInterval:     duration("SWEEP_INTERVAL", time.Minute),
		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey: os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransEnv:       midtransEnv(os.Getenv("MIDTRANS_ENV")),
		CORSOrigins:       origins,
	}
}

func midtransEnv(v string) midtrans.EnvironmentType {
	if strings.EqualFold(v, "production") {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// MidtransClients returns the Snap and Core API clients, or nils when no
// server key is configured.
func (b Backend) MidtransClients() (*snap.Client, *coreapi.Client) {
	if b.MidtransServerKey == "" {
		return nil, nil
	}
	var s snap.Client
	s.New(b.MidtransServerKey, b.MidtransEnv)

	var c coreapi.Client
	c.New(b.MidtransServerKey, b.MidtransEnv)
	return &s, &c
}

func LoadBackup() Backup {
	loadEnv()
	return Backup{
		DatabaseURL: getenv("DATABASE_URL", "netcafe.db"),
		B2KeyID:     os.Getenv("B2_KEY_ID"),
		B2AppKey:    os.Getenv("B2_APP_KEY"),
		B2Bucket:    os.Getenv("B2_BUCKET"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
