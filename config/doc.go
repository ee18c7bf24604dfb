// Package config loads ragteam configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables, then command-line flags applied by the caller.
// Secret-bearing values may be written as ${VAR} or secretref:<provider>:<ref>
// and are resolved by ResolveSecrets.
package config
