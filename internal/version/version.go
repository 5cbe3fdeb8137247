package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema versions. Bump these when making breaking changes, and add
// the new identifier to MinTrellisVersion.
const (
	CurrentConfigVersion = 1
	CurrentSeedVersion   = 1
)

// Schema type prefixes.
const (
	ConfigSchemaPrefix = "config/"
	SeedSchemaPrefix   = "seed/"
)

// MinTrellisVersion maps schema identifiers to the minimum trellis version
// that reads them. Used for upgrade messages on newer files.
var MinTrellisVersion = map[string]string{
	"config/1": "0.1.0",
	"seed/1":   "0.1.0",
}

// FormatConfigSchema creates a config schema string from a version number.
// Example: FormatConfigSchema(1) returns "config/1"
func FormatConfigSchema(v int) string {
	return fmt.Sprintf("%s%d", ConfigSchemaPrefix, v)
}

// FormatSeedSchema creates a sandbox seed schema string from a version number.
func FormatSeedSchema(v int) string {
	return fmt.Sprintf("%s%d", SeedSchemaPrefix, v)
}

// ParseConfigVersion extracts the version number from a config schema string.
func ParseConfigVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, ConfigSchemaPrefix, "config")
}

// ParseSeedVersion extracts the version number from a seed schema string.
func ParseSeedVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, SeedSchemaPrefix, "seed")
}

func parseSchemaVersion(schema, prefix, schemaType string) (int, error) {
	if !strings.HasPrefix(schema, prefix) {
		return 0, fmt.Errorf("invalid %s schema format: %q (expected %sN)", schemaType, schema, prefix)
	}
	versionStr := strings.TrimPrefix(schema, prefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s schema version: %q", schemaType, versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s schema version: %d (must be >= 1)", schemaType, v)
	}
	return v, nil
}

// CurrentConfigSchema returns the current config schema string.
func CurrentConfigSchema() string {
	return FormatConfigSchema(CurrentConfigVersion)
}

// CurrentSeedSchema returns the current seed schema string.
func CurrentSeedSchema() string {
	return FormatSeedSchema(CurrentSeedVersion)
}
