// Package secret resolves credentials referenced from configuration.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//   - Loading a .env file into the process environment (see LoadDotenv)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:OPENAI_API_KEY
//   - From a file: secretref:dotenv:OPENAI_API_KEY
//   - Inline use:  Bearer secretref:env:OPENAI_API_KEY
//
// The "env" and "dotenv" providers are registered in DefaultRegistry.
package secret
