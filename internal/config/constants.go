package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Timeout for a single call to the hosted database REST API
const RESTRequestTimeout = 20 * time.Second

// Ping timeout for startup connectivity checks
const PingTimeout = 5 * time.Second

// Window for the per-IP rate limiter
const RateLimitWindow = 60 * time.Second
