package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem in a file trellis reads.
type SchemaVersionError struct {
	FileType    string // "config", "seed"
	FilePath    string
	Found       string // "missing" or the schema found
	Expected    string
	MinRequired string // Minimum trellis version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires trellis >= %s (file: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf(
			"%s has no schema version (file: %s). Add trellis_schema = %q or run 'trellis login' to rewrite it.",
			e.FileType, e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

// MissingConfigSchema creates an error for a config file missing trellis_schema.
func MissingConfigSchema(path string) error {
	return &SchemaVersionError{
		FileType: "config",
		FilePath: path,
		Found:    "missing",
		Expected: CurrentConfigSchema(),
	}
}

// InvalidConfigSchema creates an error for a config with an unsupported schema.
func InvalidConfigSchema(path, found string) error {
	return invalidSchema("config", path, found, CurrentConfigSchema(), CurrentConfigVersion, ParseConfigVersion)
}

// MissingSeedSchema creates an error for a seed file missing trellis_schema.
func MissingSeedSchema(path string) error {
	return &SchemaVersionError{
		FileType: "seed",
		FilePath: path,
		Found:    "missing",
		Expected: CurrentSeedSchema(),
	}
}

// InvalidSeedSchema creates an error for a seed file with an unsupported schema.
func InvalidSeedSchema(path, found string) error {
	return invalidSchema("seed", path, found, CurrentSeedSchema(), CurrentSeedVersion, ParseSeedVersion)
}

func invalidSchema(fileType, path, found, expected string, current int, parse func(string) (int, error)) error {
	e := &SchemaVersionError{
		FileType: fileType,
		FilePath: path,
		Found:    found,
		Expected: expected,
	}
	// Check if it's a future version
	if v, err := parse(found); err == nil && v > current {
		if minVersion, ok := MinTrellisVersion[found]; ok {
			e.MinRequired = minVersion
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
