package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	// ErrMissingEnv is returned when ${VAR} names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrProviderNotRegistered is returned for an unknown provider name.
	ErrProviderNotRegistered = errors.New("secret: provider is not registered")

	// ErrInvalidRegistration is returned when registering an empty name or nil factory.
	ErrInvalidRegistration = errors.New("secret: invalid provider registration")

	// ErrAlreadyRegistered is returned when a provider name is registered twice.
	ErrAlreadyRegistered = errors.New("secret: provider already registered")

	// ErrNotFound is returned by providers that have no value for a ref.
	ErrNotFound = errors.New("secret: not found")

	// ErrEmptySecret is returned in strict mode when a provider yields "".
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrInvalidRef is returned when a reference lacks a provider or ref part.
	ErrInvalidRef = errors.New("secret: invalid reference")
)
