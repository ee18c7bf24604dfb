package cache

import (
	"errors"
	"strings"
	"testing"
)

type searchParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func TestDefaultKeyer_Deterministic(t *testing.T) {
	k := NewDefaultKeyer()

	a := map[string]any{"query": "solar", "rows": 5, "filter_type": "journal-article"}
	b := map[string]any{"filter_type": "journal-article", "rows": 5, "query": "solar"}

	keyA, err := k.Key("crossref", a)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	keyB, err := k.Key("crossref", b)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if keyA != keyB {
		t.Errorf("map order changed key: %q vs %q", keyA, keyB)
	}

	for i := 0; i < 10; i++ {
		again, _ := k.Key("crossref", a)
		if again != keyA {
			t.Fatalf("key changed on call %d: %q vs %q", i, again, keyA)
		}
	}
}

func TestDefaultKeyer_Format(t *testing.T) {
	k := NewDefaultKeyer()
	key, err := k.Key("web_search", searchParams{Query: "solar power", MaxResults: 5})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if !strings.HasPrefix(key, "web_search_") {
		t.Errorf("key %q missing tool prefix", key)
	}
	hash := strings.TrimPrefix(key, "web_search_")
	if len(hash) != HashBytes*2 {
		t.Errorf("hash length = %d, want %d", len(hash), HashBytes*2)
	}
	if strings.ToLower(hash) != hash {
		t.Errorf("hash should be lowercase hex: %q", hash)
	}
}

func TestDefaultKeyer_DistinctOptions(t *testing.T) {
	k := NewDefaultKeyer()

	base, _ := k.Key("web_search", searchParams{Query: "solar power", MaxResults: 5})
	otherLimit, _ := k.Key("web_search", searchParams{Query: "solar power", MaxResults: 10})
	otherQuery, _ := k.Key("web_search", searchParams{Query: "wind power", MaxResults: 5})
	otherTool, _ := k.Key("openalex", searchParams{Query: "solar power", MaxResults: 5})

	seen := map[string]string{}
	for name, key := range map[string]string{
		"base":        base,
		"other limit": otherLimit,
		"other query": otherQuery,
		"other tool":  otherTool,
	} {
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s share key %q", name, prev, key)
		}
		seen[key] = name
	}
}

func TestDefaultKeyer_StructMatchesMap(t *testing.T) {
	k := NewDefaultKeyer()
	fromStruct, err := k.Key("web_search", searchParams{Query: "q", MaxResults: 3})
	if err != nil {
		t.Fatal(err)
	}
	fromMap, err := k.Key("web_search", map[string]any{"max_results": 3, "query": "q"})
	if err != nil {
		t.Fatal(err)
	}
	if fromStruct != fromMap {
		t.Errorf("struct key %q != map key %q", fromStruct, fromMap)
	}
}

func TestDefaultKeyer_InvalidTool(t *testing.T) {
	k := NewDefaultKeyer()
	for _, tool := range []string{"", "web search", "../etc", "a/b", "tool.json"} {
		if _, err := k.Key(tool, nil); !errors.Is(err, ErrInvalidTool) {
			t.Errorf("Key(%q) error = %v, want ErrInvalidTool", tool, err)
		}
	}
}

func TestDefaultKeyer_UnencodableParams(t *testing.T) {
	k := NewDefaultKeyer()
	if _, err := k.Key("web_search", map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("expected error for unencodable params")
	}
}
