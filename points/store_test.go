package points

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const pointDocFixture = `[
  {"paiwei_1": [
    {"A": [
      {"center_point": [100, 700, 24, 26]},
      {"folichaodu_point": [-30, -10, 12, 14]},
      {"owner_point": [40, -20, 10, 12]}
    ]},
    {"B": [
      {"center_point": [300, 700, 24, 26]}
    ]}
  ]},
  {"paiwei_10": [
    {"A": [
      {"center_point": [80, 650, 20, 22]}
    ]}
  ]}
]`

func writeFixture(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}

func TestLoadRegionPoints(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, PointDocName, pointDocFixture)
	store := NewStore(dir)

	regions, err := store.LoadRegionPoints("paiwei_1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	center, ok := regions["A"]["center"]
	if !ok {
		t.Fatal("region A missing center placement")
	}
	if center.DX != 100 || center.DY != 700 || center.Size != 24 || center.Spacing != 26 {
		t.Fatalf("unexpected center placement: %+v", center)
	}
	if _, ok := regions["A"]["folichaodu"]; !ok {
		t.Fatal("field key should be stored without the _point suffix")
	}
	if _, ok := regions["B"]["owner"]; ok {
		t.Fatal("region B should not inherit region A fields")
	}
}

func TestLoadRegionPoints_TemplateNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, PointDocName, pointDocFixture)
	store := NewStore(dir)

	_, err := store.LoadRegionPoints("paiwei_5")
	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ConfigNotFoundError, got %v", err)
	}
}

func TestLoadRegionPoints_MissingDoc(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.LoadRegionPoints("paiwei_1")
	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ConfigNotFoundError, got %v", err)
	}
}

func TestLoadRegionPoints_MalformedDoc(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, PointDocName, `{"not": "an array"}`)
	store := NewStore(dir)

	_, err := store.LoadRegionPoints("paiwei_1")
	var malformed *ConfigMalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected ConfigMalformedError, got %v", err)
	}
}

func TestLoadCountPoints(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "owner_point_A.json", `{
	  "1": [[0, 0, 14, 16]],
	  "2": [[0, 0, 14, 16], [20, 0, 14, 16]],
	  "3": [[0, 0, 12, 14], [15, 0, 12, 14], [30, 0, 12, 14]],
	  "4": [[0, 0, 10, 12], [12, 0, 10, 12], [24, 0, 10, 12], [36, 0, 10, 12]],
	  "5": [[0, 0, 10, 12], [10, 0, 10, 12], [20, 0, 10, 12], [30, 0, 10, 12], [40, 0, 10, 12]],
	  "6": [[0, 0, 8, 10], [8, 0, 8, 10], [16, 0, 8, 10], [24, 0, 8, 10], [32, 0, 8, 10], [40, 0, 8, 10]]
	}`)
	store := NewStore(dir)

	buckets, err := store.LoadCountPoints("owner_point_A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(buckets[2]) != 2 {
		t.Fatalf("expected 2 placements in bucket 2, got %d", len(buckets[2]))
	}
	if buckets[3][1].DX != 15 {
		t.Fatalf("unexpected placement: %+v", buckets[3][1])
	}
}

func TestLoadCountPoints_MissingBucket(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "deceased_point_B.json", `{
	  "1": [[0, 0, 14, 16]],
	  "2": [[0, 0, 14, 16], [20, 0, 14, 16]]
	}`)
	store := NewStore(dir)

	_, err := store.LoadCountPoints("deceased_point_B")
	var malformed *ConfigMalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected ConfigMalformedError for missing bucket, got %v", err)
	}
}

func TestReplacePointDoc(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, PointDocName, pointDocFixture)
	store := NewStore(dir)

	if err := store.ReplacePointDoc([]byte(`not json`)); err == nil {
		t.Fatal("expected a malformed document to be rejected")
	}

	replacement := `[{"paiwei_1": [{"A": [{"center_point": [1, 2, 3, 4]}]}]}]`
	if err := store.ReplacePointDoc([]byte(replacement)); err != nil {
		t.Fatalf("expected replacement to succeed, got %v", err)
	}

	raw, err := store.RawPointDoc()
	if err != nil {
		t.Fatalf("reading back point doc: %v", err)
	}
	if string(raw) != replacement {
		t.Fatalf("point doc not overwritten: %s", raw)
	}

	regions, err := store.LoadRegionPoints("paiwei_1")
	if err != nil {
		t.Fatalf("loading replaced doc: %v", err)
	}
	if regions["A"]["center"].DX != 1 {
		t.Fatalf("unexpected placement after replace: %+v", regions["A"]["center"])
	}
}
