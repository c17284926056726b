// Package config loads routewatch's TOML configuration.
//
// # Discovery
//
// Load follows this order:
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/routewatch/config.toml
//  3. If the file doesn't exist, use the defaults
//  4. Missing or blank fields fall back to their defaults
//
// Afterwards LOG_LEVEL, when set, replaces log_level.
//
// # Format
//
//	api_url        = "http://127.0.0.1:8080"
//	api_token      = ""
//	focus_interval = "10s"
//	blur_interval  = "60s"
//	log_level      = "info"
//	log_file       = "~/.local/state/routewatch/routewatch.log"
//
//	[prefs]
//	backend    = "file"  # file | bolt | redis | memory
//	path       = "~/.config/routewatch/prefs.toml"
//	redis_addr = "127.0.0.1:6379"
//
// Intervals use time.ParseDuration syntax and must be positive. Tilde
// expansion is applied to log_file; the prefs path is expanded by the
// prefs package.
//
// # Errors
//
// Load returns an error for an unreadable file, invalid TOML, or a bad
// interval. A missing file is not an error.
package config
