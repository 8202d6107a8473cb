// Package config loads and validates application configuration from
// environment variables (with optional config file support) using viper,
// and validates the result with go-playground/validator struct tags.
package config
