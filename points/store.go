package points

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Placement - one drawing anchor: offset from the slot base point,
// font size, and the vertical per-character spacing.
// Stored on disk as a bare 4-tuple [dx, dy, size, spacing].
type Placement struct {
	DX      float64
	DY      float64
	Size    float64
	Spacing float64
}

func (p *Placement) UnmarshalJSON(data []byte) error {
	var tuple []float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 4 {
		return fmt.Errorf("placement tuple must have 4 numbers, got %d", len(tuple))
	}
	p.DX, p.DY, p.Size, p.Spacing = tuple[0], tuple[1], tuple[2], tuple[3]
	return nil
}

func (p Placement) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{p.DX, p.DY, p.Size, p.Spacing})
}

// RegionPoints - field name (without the `_point` suffix) -> placement
// for one slot region of a template page.
type RegionPoints map[string]Placement

// CountPoints - person count (1..6) -> one placement per person.
type CountPoints map[int][]Placement

const (
	PointDocName = "point.json"

	countBucketMin = 1
	countBucketMax = 6
)

// Store reads point config documents from a data directory.
// Every load is a fresh read; edits through the admin UI
// take effect on the next render.
type Store struct {
	DataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{DataDir: dataDir}
}

// point.json layout:
// [ {templateName: [ {regionCode: [ {"<field>_point": [dx,dy,size,spacing]}, ... ]}, ... ]}, ... ]
type pointDoc []map[string][]map[string][]map[string]Placement

// LoadRegionPoints returns the per-region placements of one template page.
// Field keys are stored stripped of the `_point` suffix; the first
// occurrence of a field within a region wins.
func (s *Store) LoadRegionPoints(templateName string) (map[string]RegionPoints, error) {
	path := filepath.Join(s.DataDir, PointDocName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, err
	}
	var doc pointDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigMalformedError{Path: path, Reason: err.Error()}
	}
	for _, entry := range doc {
		blocks, ok := entry[templateName]
		if !ok {
			continue
		}
		regions := make(map[string]RegionPoints)
		for _, block := range blocks {
			for regionCode, fieldEntries := range block {
				rp, exists := regions[regionCode]
				if !exists {
					rp = make(RegionPoints)
					regions[regionCode] = rp
				}
				for _, fieldEntry := range fieldEntries {
					for fieldKey, placement := range fieldEntry {
						name := strings.TrimSuffix(fieldKey, "_point")
						if _, dup := rp[name]; !dup {
							rp[name] = placement
						}
					}
				}
			}
		}
		return regions, nil
	}
	return nil, &ConfigNotFoundError{Path: path + "#" + templateName}
}

// LoadCountPoints reads a count-bucket document, e.g. `owner_point_A.json`.
// docName carries no extension. All buckets 1..6 must be present.
func (s *Store) LoadCountPoints(docName string) (CountPoints, error) {
	path := filepath.Join(s.DataDir, docName+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, err
	}
	var keyed map[string][]Placement
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, &ConfigMalformedError{Path: path, Reason: err.Error()}
	}
	buckets := make(CountPoints, len(keyed))
	for key, placements := range keyed {
		cnt, err := strconv.Atoi(key)
		if err != nil {
			return nil, &ConfigMalformedError{Path: path, Reason: fmt.Sprintf("non-numeric bucket key %q", key)}
		}
		buckets[cnt] = placements
	}
	for cnt := countBucketMin; cnt <= countBucketMax; cnt++ {
		if _, ok := buckets[cnt]; !ok {
			return nil, &ConfigMalformedError{Path: path, Reason: fmt.Sprintf("missing count bucket %d", cnt)}
		}
	}
	return buckets, nil
}

// RawPointDoc returns the raw point.json bytes for the admin config UI.
func (s *Store) RawPointDoc() ([]byte, error) {
	path := filepath.Join(s.DataDir, PointDocName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, err
	}
	return raw, nil
}

// ReplacePointDoc overwrites point.json. The new document must at least
// parse as the expected layout; placements are not range-checked.
func (s *Store) ReplacePointDoc(raw []byte) error {
	path := filepath.Join(s.DataDir, PointDocName)
	var doc pointDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ConfigMalformedError{Path: path, Reason: err.Error()}
	}
	return os.WriteFile(path, raw, 0o644)
}
