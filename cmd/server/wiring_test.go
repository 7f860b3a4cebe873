package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/linnemanlabs/go-core/log"

	sc "github.com/linnemanlabs/supportflow/internal/cfg"
	"github.com/linnemanlabs/supportflow/internal/corpus"
)

const bundleYAML = `
examples:
  - {tier: high, text: "everything is down"}
  - {tier: low, text: "how do I export a report"}
`

func writeBundle(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(bundleYAML), 0o600); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

func TestNewDrafter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  sc.Config
		want string
	}{
		{"none", sc.Config{DraftingProvider: sc.ProviderNone, ClaudeAPIKey: "k"}, ""},
		{"auto without keys", sc.Config{DraftingProvider: sc.ProviderAuto}, ""},
		{"auto claude", sc.Config{DraftingProvider: sc.ProviderAuto, ClaudeAPIKey: "k", ClaudeModel: "m"}, "claude"},
		{"explicit openrouter", sc.Config{DraftingProvider: sc.ProviderOpenRouter, OpenRouterAPIKey: "k", OpenRouterModel: "m", OpenRouterBaseURL: "http://localhost"}, "openrouter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := newDrafter(&tt.cfg)
			if tt.want == "" {
				if d != nil {
					t.Errorf("newDrafter = %v, want nil", d.Name())
				}
				return
			}
			if d == nil || d.Name() != tt.want {
				t.Fatalf("newDrafter = %v, want %s", d, tt.want)
			}
		})
	}
}

func TestLoadBundle(t *testing.T) {
	t.Parallel()

	b, err := loadBundle(&sc.Config{})
	if err != nil {
		t.Fatalf("loadBundle default: %v", err)
	}
	if len(b.Examples) != len(corpus.Default().Examples) {
		t.Errorf("default examples = %d", len(b.Examples))
	}

	b, err = loadBundle(&sc.Config{CorpusFile: writeBundle(t)})
	if err != nil {
		t.Fatalf("loadBundle file: %v", err)
	}
	if len(b.Examples) != 2 {
		t.Errorf("file examples = %d, want 2", len(b.Examples))
	}

	if _, err := loadBundle(&sc.Config{CorpusFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing corpus file")
	}
}

func TestNewCorpusSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	src, closeFn, err := newCorpusSource(ctx, &sc.Config{}, reg, log.Nop())
	if err != nil || src != nil {
		t.Errorf("no source configured: src=%v err=%v", src, err)
	}
	closeFn()

	path := writeBundle(t)
	src, closeFn, err = newCorpusSource(ctx, &sc.Config{CorpusFile: path}, reg, log.Nop())
	if err != nil {
		t.Fatalf("file source: %v", err)
	}
	defer closeFn()
	examples, err := src.Examples(ctx)
	if err != nil {
		t.Fatalf("Examples: %v", err)
	}
	if len(examples) != 2 {
		t.Errorf("examples = %d, want 2", len(examples))
	}
}

func TestNewCorpusSource_BadDatabaseURL(t *testing.T) {
	t.Parallel()

	_, closeFn, err := newCorpusSource(context.Background(), &sc.Config{DatabaseURL: "://not a url"}, prometheus.NewRegistry(), log.Nop())
	if err == nil {
		t.Fatal("expected error for invalid database url")
	}
	closeFn()
}
