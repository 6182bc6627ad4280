// Package config provides centralized configuration management for the trace
// report pipeline. It handles loading configuration from multiple sources,
// validation, and a single source of truth for filesystem paths.
//
// # Configuration Sources
//
// Configuration is loaded in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file next to the executable
//	3. Struct tag defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables use the WPR_* prefix:
//
//	WPR_SERVER_PORT=8080
//	WPR_LOGGING_LEVEL=debug
//	WPR_PARSE_ABORT_ON_MISSING_HEADER=true
//
// # Paths
//
// All filesystem paths are resolved relative to the executable directory,
// never the working directory, so the binaries behave the same wherever they
// are launched from. See GetPaths.
package config
