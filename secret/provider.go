package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves refs as environment variable names.
type EnvProvider struct{}

// NewEnvProvider creates the "env" provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the value of the environment variable ref.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(strings.TrimSpace(ref))
	if !ok {
		return "", fmt.Errorf("%w: env %s", ErrNotFound, ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// DefaultDotenvPath is the file read by the "dotenv" provider when no path is
// configured.
const DefaultDotenvPath = ".env"

// DotenvProvider resolves refs as keys of a .env file. The file is read once,
// on first use.
type DotenvProvider struct {
	path string

	once   sync.Once
	values map[string]string
	err    error
}

// NewDotenvProvider creates the "dotenv" provider reading path.
func NewDotenvProvider(path string) *DotenvProvider {
	if path == "" {
		path = DefaultDotenvPath
	}
	return &DotenvProvider{path: path}
}

// Name returns "dotenv".
func (p *DotenvProvider) Name() string { return "dotenv" }

// Resolve returns the value of key ref in the file.
func (p *DotenvProvider) Resolve(_ context.Context, ref string) (string, error) {
	p.once.Do(func() {
		p.values, p.err = godotenv.Read(p.path)
	})
	if p.err != nil {
		return "", fmt.Errorf("secret: read %s: %w", p.path, p.err)
	}
	v, ok := p.values[strings.TrimSpace(ref)]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, ref, p.path)
	}
	return v, nil
}

// Close is a no-op.
func (p *DotenvProvider) Close() error { return nil }

// LoadDotenv copies the variables defined in path into the process
// environment. Variables that are already set keep their value. A missing
// file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = DefaultDotenvPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("secret: load %s: %w", path, err)
	}
	return nil
}

var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*DotenvProvider)(nil)
)
