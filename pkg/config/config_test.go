package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/render"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got, want := cfg.RenderOptions(), render.DefaultOptions(); got != want {
		t.Errorf("RenderOptions() = %+v, want %+v", got, want)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if len(cfg.Classifier.Infrastructure) != len(classify.DefaultKeywords().Infrastructure) {
		t.Error("default classifier keywords not applied")
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(`
[classifier]
infrastructure = ["Gateway"]

[render]
show_exports = false
max_service_length = 20

[timeline]
title = "Boot order"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "90m"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := cfg.Classifier.Infrastructure; len(got) != 1 || got[0] != "Gateway" {
		t.Errorf("Classifier.Infrastructure = %v", got)
	}
	if len(cfg.Classifier.Domain) == 0 {
		t.Error("unset domain keywords should keep defaults")
	}

	opts := cfg.RenderOptions()
	if opts.ShowExports {
		t.Error("ShowExports should be overridden")
	}
	if !opts.ShowServices {
		t.Error("ShowServices should keep its default")
	}
	if opts.MaxServiceLength != 20 {
		t.Errorf("MaxServiceLength = %d", opts.MaxServiceLength)
	}
	if opts.Title != "Boot order" || !opts.ShowCounts {
		t.Errorf("timeline options = %+v", opts)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}

	c := cfg.NewClassifier()
	if got := c.Keywords().Infrastructure; len(got) != 1 || got[0] != "gateway" {
		t.Errorf("classifier keywords = %v, want lower-cased", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"unknown key", "[render]\nshow_export = true\n", "render.show_export"},
		{"short length", "[render]\nmax_service_length = 2\n", "max_service_length"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n", "ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Parse() error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q should mention %q", err, tt.msg)
			}
		})
	}

	if _, err := Parse("[render\n"); err == nil {
		t.Error("malformed TOML should fail")
	}
	if _, err := Parse("[cache]\nttl = \"soon\"\n"); err == nil {
		t.Error("bad duration should fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Path != path {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "absent.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("explicit missing path: err = %v", err)
	}
}

func TestLoad_DefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/cache"); got != filepath.Join(home, "cache") {
		t.Errorf("expandHome(~/cache) = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %q", got)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := DefaultCacheDir(); got != filepath.Join("/tmp/xdg", "modgraph") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := DefaultCacheDir(); got != filepath.Join(home, ".cache", "modgraph") {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}

func TestKeyer_Prefix(t *testing.T) {
	opts := cache.RenderKeyOpts{Format: "flowchart"}
	plain := Default().Keyer().RenderKey("abc", opts)

	cfg, err := Parse("[cache]\nprefix = \"staging:\"\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Prefix != "staging:" {
		t.Fatalf("Cache.Prefix = %q", cfg.Cache.Prefix)
	}
	scoped := cfg.Keyer().RenderKey("abc", opts)
	if scoped != "staging:"+plain {
		t.Errorf("scoped key = %q, want %q", scoped, "staging:"+plain)
	}
}
