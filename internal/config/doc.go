// Package config defines the application configuration and loads it
// from environment variables and optional config files. Environment
// variables use the CARDIFY_ prefix and take precedence over file
// values; the loaded configuration is validated before use.
package config
