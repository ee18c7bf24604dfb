package cache_test

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/ragteam/cache"
)

func ExampleNewMemoryCache() {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	// Store a value
	_ = c.Set(ctx, "my-key", []byte(`["hello"]`))

	// Retrieve the value
	res := c.Get(ctx, "my-key")
	fmt.Println("Status:", res.Status)
	fmt.Println("Value:", string(res.Value))
	// Output:
	// Status: hit
	// Value: ["hello"]
}

func ExampleFileCache_Clear() {
	dir, _ := os.MkdirTemp("", "cache-example")
	defer os.RemoveAll(dir)

	c := cache.NewFileCache(dir)
	ctx := context.Background()

	_ = c.Set(ctx, "web_search_one", []byte(`[]`))
	_ = c.Set(ctx, "openalex_two", []byte(`[]`))

	n, err := c.Clear(ctx)
	fmt.Println("Removed:", n, "Error:", err)
	// Output:
	// Removed: 2 Error: <nil>
}

func ExampleNewDefaultKeyer() {
	keyer := cache.NewDefaultKeyer()

	key1, _ := keyer.Key("crossref", map[string]any{"query": "test", "rows": 5})
	fmt.Println("Key prefix:", key1[:9])
	fmt.Println("Key length:", len(key1))

	// Deterministic - same input produces same key
	key2, _ := keyer.Key("crossref", map[string]any{"rows": 5, "query": "test"})
	fmt.Println("Keys match:", key1 == key2)

	// Any differing option produces a different key
	key3, _ := keyer.Key("crossref", map[string]any{"query": "test", "rows": 6})
	fmt.Println("Different option, different key:", key1 != key3)
	// Output:
	// Key prefix: crossref_
	// Key length: 41
	// Keys match: true
	// Different option, different key: true
}

func ExampleMiddleware_Execute() {
	store, _ := cache.NewStore[string](cache.NewMemoryCache(), nil)
	mw := cache.NewMiddleware(store, cache.DefaultPolicy())
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"first", "second"}, nil
	}

	v1, _ := mw.Execute(ctx, "web_search", "solar power", fetch)
	v2, _ := mw.Execute(ctx, "web_search", "solar power", fetch)

	fmt.Println(v1, v2)
	fmt.Println("Fetches:", calls)
	// Output:
	// [first second] [first second]
	// Fetches: 1
}

func ExampleDefaultPolicy() {
	policy := cache.DefaultPolicy()
	fmt.Println("Enabled:", policy.Enabled)
	fmt.Println("Store empty lists:", policy.ShouldStore(0))
	// Output:
	// Enabled: true
	// Store empty lists: true
}
