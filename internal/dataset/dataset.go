// Package dataset bundles the fallback journal rows served when the
// persistent cache is empty and the remote source has not answered yet,
// guaranteeing a usable catalog on first start even offline.
package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/gnames/gnfmt"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

//go:embed journals.json
var bundled []byte

// Load decodes the embedded fallback rows.
func Load() ([]domain.RawRow, error) {
	return decode(bundled)
}

// LoadFile decodes fallback rows from an on-disk file, used when the
// deployment overrides the bundled dataset.
func LoadFile(path string) ([]domain.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file %s: %w", path, err)
	}
	return decode(data)
}

func decode(data []byte) ([]domain.RawRow, error) {
	var rows []domain.RawRow
	enc := gnfmt.GNjson{}
	if err := enc.Decode(data, &rows); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return rows, nil
}
