package version

import (
	"strings"
	"testing"
)

func TestFormatConfigSchema(t *testing.T) {
	tests := []struct {
		version  int
		expected string
	}{
		{1, "config/1"},
		{2, "config/2"},
		{10, "config/10"},
	}
	for _, tt := range tests {
		got := FormatConfigSchema(tt.version)
		if got != tt.expected {
			t.Errorf("FormatConfigSchema(%d) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestParseConfigVersion(t *testing.T) {
	tests := []struct {
		schema    string
		expected  int
		expectErr bool
	}{
		{"config/1", 1, false},
		{"config/10", 10, false},
		{"seed/1", 0, true},     // Wrong prefix
		{"config/", 0, true},    // Missing version
		{"config/abc", 0, true}, // Invalid version
		{"config/0", 0, true},   // Version must be >= 1
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseConfigVersion(tt.schema)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseConfigVersion(%q) expected error, got %d", tt.schema, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConfigVersion(%q) unexpected error: %v", tt.schema, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseConfigVersion(%q) = %d, want %d", tt.schema, got, tt.expected)
		}
	}
}

func TestParseSeedVersion(t *testing.T) {
	if v, err := ParseSeedVersion("seed/1"); err != nil || v != 1 {
		t.Errorf("ParseSeedVersion(seed/1) = %d, %v", v, err)
	}
	if _, err := ParseSeedVersion("config/1"); err == nil {
		t.Error("ParseSeedVersion(config/1) expected error")
	}
}

func TestSchemaVersionError(t *testing.T) {
	missing := MissingConfigSchema("/tmp/config.toml").Error()
	if !strings.Contains(missing, "no schema version") || !strings.Contains(missing, "config/1") {
		t.Errorf("unexpected missing-schema message: %s", missing)
	}

	future := InvalidConfigSchema("/tmp/config.toml", "config/99").Error()
	if !strings.Contains(future, "requires trellis >= a newer version") {
		t.Errorf("unexpected future-schema message: %s", future)
	}

	wrong := InvalidSeedSchema("/tmp/seed.yaml", "board/1").Error()
	if !strings.Contains(wrong, "found board/1, expected seed/1") {
		t.Errorf("unexpected invalid-schema message: %s", wrong)
	}
}

func TestMinTrellisVersionCompleteness(t *testing.T) {
	for v := 1; v <= CurrentConfigVersion; v++ {
		key := FormatConfigSchema(v)
		if _, ok := MinTrellisVersion[key]; !ok {
			t.Errorf("MinTrellisVersion missing entry for %s", key)
		}
	}
	for v := 1; v <= CurrentSeedVersion; v++ {
		key := FormatSeedSchema(v)
		if _, ok := MinTrellisVersion[key]; !ok {
			t.Errorf("MinTrellisVersion missing entry for %s", key)
		}
	}
	if len(MinTrellisVersion) != CurrentConfigVersion+CurrentSeedVersion {
		t.Errorf("MinTrellisVersion has %d entries, want %d", len(MinTrellisVersion),
			CurrentConfigVersion+CurrentSeedVersion)
	}
}
