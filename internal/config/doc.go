// Package config loads and validates the Pulse server configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion. Load reads
// the raw file, LoadWithDefaults fills in optional fields, and
// LoadAndValidate is what the binary calls.
package config
