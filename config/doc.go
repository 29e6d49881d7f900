// Package config reads process settings from the environment.
//
// Settings are plain structs tagged for github.com/caarlos0/env. A .env file
// in the working directory, if present, is loaded once before the first
// parse; variables already set in the environment win over the file.
//
//	var logging config.Logging
//	if err := config.Parse(&logging); err != nil {
//		return err
//	}
package config
