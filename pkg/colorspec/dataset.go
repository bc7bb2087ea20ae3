package colorspec

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// DatasetEntry is one named color from a reference dataset.
type DatasetEntry struct {
	Name string
	R    uint8
	G    uint8
	B    uint8
}

// Dataset is a list of named RGB colors for nearest-name lookup.
type Dataset struct {
	entries []DatasetEntry
}

// Dataset CSV column layout: slug, display name, hex, R, G, B.
const (
	colName = 1
	colR    = 3
	colG    = 4
	colB    = 5
)

// LoadDataset reads a color-name dataset from a CSV file. The first row is
// treated as a header and skipped. Callers are expected to fall back to
// DefaultRanges when loading fails.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open dataset %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse dataset %s", path)
	}

	ds := &Dataset{}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) <= colB {
			continue
		}
		r, errR := strconv.Atoi(rec[colR])
		g, errG := strconv.Atoi(rec[colG])
		b, errB := strconv.Atoi(rec[colB])
		if errR != nil || errG != nil || errB != nil {
			continue
		}
		ds.entries = append(ds.entries, DatasetEntry{
			Name: rec[colName],
			R:    uint8(r),
			G:    uint8(g),
			B:    uint8(b),
		})
	}
	if len(ds.entries) == 0 {
		return nil, errors.Wrapf(ErrEmptyDataset, "dataset %s", path)
	}
	return ds, nil
}

// Len returns the number of entries in the dataset.
func (d *Dataset) Len() int {
	return len(d.entries)
}

// Nearest returns the dataset entry closest to the given RGB sample by
// squared Euclidean distance.
func (d *Dataset) Nearest(r, g, b uint8) DatasetEntry {
	best := DatasetEntry{}
	bestDist := -1
	for _, e := range d.entries {
		dr := int(e.R) - int(r)
		dg := int(e.G) - int(g)
		db := int(e.B) - int(b)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = e
		}
	}
	return best
}
