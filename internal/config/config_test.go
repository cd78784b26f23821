package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LABVOLUME_TOP_N", "7")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.KeyColumn != "LABORATORIO" || c.NarrateModel != "qwen2.5:3b" || c.OutputFormat != "md" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.TopN != 7 {
		t.Fatalf("TopN = %d, want 7 from env", c.TopN)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	for k, v := range map[string]string{
		"key_column":          "Lab",
		"sheet_index":         "2",
		"decimal_separator":   ",",
		"thousands_separator": ".",
		"output_format":       "JSON",
		"narrate_provider":    "local",
		"log_level":           "DEBUG",
	} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.KeyColumn != "Lab" || got.SheetIndex != 2 || got.OutputFormat != "json" || got.NarrateProvider != "ollama" || got.LogLevel != "debug" {
		t.Fatalf("reloaded = %+v", got)
	}
	if v, _ := got.Get("decimal_separator"); v != "," {
		t.Fatalf("decimal_separator = %q", v)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	c := &Global{}
	for k, v := range map[string]string{
		"output_format":     "html",
		"top_n":             "-1",
		"sheet_index":       "x",
		"decimal_separator": ",,",
		"narrate_provider":  "openrouter",
		"log_level":         "loud",
		"key_column":        " ",
		"nope":              "1",
	} {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%s, %s) should fail", k, v)
		}
	}
}

func TestKeysAreGettable(t *testing.T) {
	c := &Global{}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}
}

func TestSeparator(t *testing.T) {
	cases := map[string]rune{"": 0, ",": ',', ".": '.', "space": ' ', "TAB": '\t'}
	for in, want := range cases {
		got, err := Separator(in)
		if err != nil || got != want {
			t.Fatalf("Separator(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}
