package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// HashBytes is the number of SHA-256 bytes kept in a key (32 hex characters).
const HashBytes = 16

// Keyer generates deterministic cache keys from a tool identifier and its
// query parameters.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from tool ID and parameters.
	Key(toolID string, params any) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: <toolID>_<hash>
// where hash is the hex encoding of the first HashBytes bytes of
// SHA-256(canonical JSON(params)). Every parameter participates, so two calls
// that share query text but differ in any option never share a key.
func (k *DefaultKeyer) Key(toolID string, params any) (string, error) {
	if err := validateToolID(toolID); err != nil {
		return "", err
	}

	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize params: %w", err)
	}

	hash := sha256.Sum256(canonical)
	key := toolID + "_" + hex.EncodeToString(hash[:HashBytes])
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func validateToolID(toolID string) error {
	if toolID == "" {
		return ErrInvalidTool
	}
	for _, r := range toolID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return ErrInvalidTool
		}
	}
	return nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering. Structs are
// round-tripped through a generic value so their field order does not leak
// into the key either.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	case string, bool, float64, int, int64:
		return json.Marshal(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		switch g := generic.(type) {
		case map[string]any:
			return canonicalizeMap(g)
		case []any:
			return canonicalizeSlice(g)
		default:
			return raw, nil
		}
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
