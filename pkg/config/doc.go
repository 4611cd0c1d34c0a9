// Package config loads typed configuration structs from environment variables
// using caarlos0/env tags, with optional .env file support for development.
//
// Each configuration type is parsed exactly once per process and cached, so
// packages can call Load independently without re-reading the environment:
//
//	type LedgerConfig struct {
//		ConnString string `env:"LEDGER_PG_URL,required"`
//	}
//
//	var cfg LedgerConfig
//	config.MustLoad(&cfg)
package config
