// Package config provides configuration loading and validation for
// datakit applications such as training pipelines.
//
// It uses Viper to load configuration from files and environment
// variables, with .env files picked up via godotenv. Values resolve in
// order: environment variables, .env file, then the YAML config file.
//
// # Usage
//
//	var cfg trainer.Config
//	err := config.LoadConfig("trainer", &cfg)
//
// Embed BaseConfig in application config structs to inherit the
// standard name/debug/logging fields and their defaults.
package config
