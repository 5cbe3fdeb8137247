// Package id mints ids for sandbox entities.
package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

var (
	ids        *fid.Generator
	shortLinks *fid.Generator
)

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ids = fid.MustNewGenerator(fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(6))

	// Short links are user-facing, so they trade collision headroom for length.
	shortLinks = fid.MustNewGenerator(fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(time.Second).
		WithNumRandomChars(3))
}

// Generate returns a new unique entity id.
func Generate() string {
	return ids.MustGenerate()
}

// ShortLink returns a new short link for a card.
func ShortLink() string {
	return shortLinks.MustGenerate()
}
