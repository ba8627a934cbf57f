package tablets

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeptools/tablet-core/orders"
	"github.com/zeptools/tablet-core/pdfs"
	"github.com/zeptools/tablet-core/points"
)

// fakeWriter records drawing calls instead of producing a PDF.
type fakeWriter struct {
	store     *pdfs.TemplateStore[int]
	pageSizes []pdfs.PaperSize
	pageTpls  []string
	texts     []string
	images    int
	fonts     []string
}

var _ pdfs.Writer[int] = (*fakeWriter)(nil)

func newFakeWriter(pdfs.PaperSize) pdfs.Writer[int] {
	return &fakeWriter{store: pdfs.NewTemplateStore[int]()}
}

func (w *fakeWriter) TemplateStore() *pdfs.TemplateStore[int] { return w.store }

func (w *fakeWriter) ImportPageAsTemplate(_ string, _ int, storeKey string) error {
	w.store.Store(storeKey, len(w.pageTpls))
	return nil
}

func (w *fakeWriter) AddBlankPage(size pdfs.PaperSize) {
	w.pageSizes = append(w.pageSizes, size)
	w.pageTpls = append(w.pageTpls, "")
}

func (w *fakeWriter) AddTemplatePage(storeKey string, size pdfs.PaperSize) bool {
	if !w.store.Has(storeKey) {
		return false
	}
	w.pageSizes = append(w.pageSizes, size)
	w.pageTpls = append(w.pageTpls, storeKey)
	return true
}

func (w *fakeWriter) PageCount() int { return len(w.pageSizes) }

func (w *fakeWriter) RegisterFont(family string, _ string) error {
	w.fonts = append(w.fonts, family)
	return nil
}

func (w *fakeWriter) SetFont(string, string, float64) error { return nil }

func (w *fakeWriter) Text(_ float64, _ float64, text string) {
	w.texts = append(w.texts, text)
}

func (w *fakeWriter) Image([]byte, float64, float64, float64, float64) error {
	w.images++
	return nil
}

func (w *fakeWriter) WriteTo(io.Writer) (int64, error) { return 0, nil }
func (w *fakeWriter) WriteToFile(string) error         { return nil }
func (w *fakeWriter) ProduceBytes() ([]byte, error)    { return []byte("%PDF-fake"), nil }

// fakeTracker records GetOrCreate page memberships.
type fakeTracker struct {
	nextID  int64
	pageIDs [][]int64
}

func (t *fakeTracker) GetOrCreate(_ context.Context, memberItemIDs []int64, _ float64, _ float64) (int64, error) {
	ids := make([]int64, len(memberItemIDs))
	copy(ids, memberItemIDs)
	t.pageIDs = append(t.pageIDs, ids)
	t.nextID++
	return t.nextID, nil
}

func (t *fakeTracker) QRPayload(jobID int64) string {
	return "job-" + string(rune('0'+jobID))
}

const countBucketsFixture = `{
  "1": [[0, 0, 14, 16]],
  "2": [[0, 0, 14, 16], [20, 0, 14, 16]],
  "3": [[0, 0, 12, 14], [15, 0, 12, 14], [30, 0, 12, 14]],
  "4": [[0, 0, 10, 12], [12, 0, 10, 12], [24, 0, 10, 12], [36, 0, 10, 12]],
  "5": [[0, 0, 10, 12], [10, 0, 10, 12], [20, 0, 10, 12], [30, 0, 10, 12], [40, 0, 10, 12]],
  "6": [[0, 0, 8, 10], [8, 0, 8, 10], [16, 0, 8, 10], [24, 0, 8, 10], [32, 0, 8, 10], [40, 0, 8, 10]]
}`

// two-slot portrait template; region B has no center point
const composePointDoc = `[
  {"paiwei_1": [
    {"A": [{"center_point": [100, 700, 24, 26]}]},
    {"B": []}
  ]},
  {"paiwei_5": [
    {"A": [{"center_point": [100, 500, 24, 26]}]}
  ]}
]`

func composeFixtures(t *testing.T) (*points.Store, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		points.PointDocName:     composePointDoc,
		"owner_point_A.json":    countBucketsFixture,
		"deceased_point_A.json": countBucketsFixture,
		"owner_point_B.json":    countBucketsFixture,
		"deceased_point_B.json": countBucketsFixture,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return points.NewStore(dir), dir
}

func TestComposeGroup_PagesAndMembership(t *testing.T) {
	store, dir := composeFixtures(t)
	tracker := &fakeTracker{}
	c := &Compositor[int]{DataDir: dir, Points: store, Tracker: tracker}
	w := newFakeWriter(pdfs.A4Size).(*fakeWriter)

	group := Group{Category: CatA1, Items: []*orders.ItemPrintData{
		{ItemID: 1, Form: orders.FormData{"surname": {"王"}}},
		{ItemID: 2, Form: orders.FormData{"surname": {"李"}}},
		{ItemID: 3, Form: orders.FormData{"surname": {"陈"}}},
	}}

	if err := c.ComposeGroup(context.Background(), w, group, true); err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	// 2 regions per page, region B never draws: 2 pages, both on the template
	if w.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", w.PageCount())
	}
	if w.pageTpls[0] != "paiwei_1" || w.pageTpls[1] != "paiwei_1" {
		t.Fatalf("pages must draw on the category template, got %v", w.pageTpls)
	}
	if w.pageSizes[0] != pdfs.A4Size {
		t.Fatalf("A-family pages must be portrait A4, got %+v", w.pageSizes[0])
	}

	// membership includes item 2 even though its slot (region B) was skipped
	if len(tracker.pageIDs) != 2 {
		t.Fatalf("expected 2 registered pages, got %d", len(tracker.pageIDs))
	}
	if len(tracker.pageIDs[0]) != 2 || tracker.pageIDs[0][0] != 1 || tracker.pageIDs[0][1] != 2 {
		t.Fatalf("page membership must include skipped slots, got %v", tracker.pageIDs[0])
	}
	if len(tracker.pageIDs[1]) != 1 || tracker.pageIDs[1][0] != 3 {
		t.Fatalf("unexpected second page membership: %v", tracker.pageIDs[1])
	}

	// one QR image per tracked page
	if w.images != 2 {
		t.Fatalf("expected 2 QR images, got %d", w.images)
	}
}

func TestComposeGroup_NoTrackingNoStamp(t *testing.T) {
	store, dir := composeFixtures(t)
	c := &Compositor[int]{DataDir: dir, Points: store, Tracker: &fakeTracker{}}
	w := newFakeWriter(pdfs.A4Size).(*fakeWriter)

	group := Group{Category: CatA1, Items: []*orders.ItemPrintData{
		{ItemID: 1, Form: orders.FormData{"surname": {"王"}}},
	}}
	if err := c.ComposeGroup(context.Background(), w, group, false); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if w.images != 0 {
		t.Fatal("untracked renders must not stamp QR codes")
	}
}

func TestComposeGroup_DonationGroupIsSkipped(t *testing.T) {
	store, dir := composeFixtures(t)
	c := &Compositor[int]{DataDir: dir, Points: store}
	w := newFakeWriter(pdfs.A4Size).(*fakeWriter)

	group := Group{Category: CatD1, Items: []*orders.ItemPrintData{
		{ItemID: 1, Form: orders.FormData{}},
	}}
	if err := c.ComposeGroup(context.Background(), w, group, false); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if w.PageCount() != 0 {
		t.Fatal("donation groups must not produce pages")
	}
}
