// Package config loads environment-driven configuration structs.
//
// It wraps caarlos0/env with .env file support (godotenv) and per-type
// caching, so every package can declare its own env-tagged Config struct and
// call Load without worrying about parse ordering or duplicate reads.
package config
