// Package config provides configuration management for lookout.
//
// Configuration is read once at startup from an optional YAML file,
// overlaid with environment variables and validated. The result is passed
// to each component at construction; nothing reads configuration later.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("lookout.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("lookout.yaml")
//
//  3. Defaults plus environment, file optional:
//     cfg, err := config.Load(path) // path may be ""
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOOKOUT_SECTION_FIELD:
//
//   - LOOKOUT_PROXY_PORT overrides proxy.port
//   - LOOKOUT_SEARCH_PROVIDER overrides search.provider
//   - LOOKOUT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// OLLAMA_API sets backend.base_url, so existing Ollama deployments work
// without a config file.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file, including explicit zero values
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	proxy:
//	  listen_address: "::"
//	  port: 8080
//	backend:
//	  base_url: "http://127.0.0.1:11434"
//	  timeout: 45s
//	search:
//	  provider: leta
//	  engine: brave
//	  timeout: 10s
//	  circuit_breaker:
//	    enabled: true
//	telemetry:
//	  admin_address: "127.0.0.1:9090"
//	  logging:
//	    level: info
//	    format: json
package config
