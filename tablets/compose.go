package tablets

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"path/filepath"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/zeptools/tablet-core/pdfs"
	"github.com/zeptools/tablet-core/points"
)

const (
	FontFamily  = "TW-Kai"
	FontFile    = "kai.ttf"
	TemplateDir = "paiwei_template"

	qrSide     = 50.0
	qrMargin   = 5.0
	qrLabelX   = 22.0
	qrLabelY   = 50.0
	qrPixels   = 200
	qrFontSize = 10.0
)

// JobTracker dedups and records the item membership of printed pages.
// QRPayload is what goes into the page barcode; the printed label next
// to it is always the numeric job id.
type JobTracker interface {
	GetOrCreate(ctx context.Context, memberItemIDs []int64, width float64, height float64) (int64, error)
	QRPayload(jobID int64) string
}

// Compositor draws category groups onto background template pages.
// One compositor serves one render pass; the point config is re-read
// per category through the store.
type Compositor[T any] struct {
	DataDir string
	Points  *points.Store
	Tracker JobTracker
}

// Compose writes every group into the document in group order.
// trackJobs also stamps each page with its print-job QR code.
func (c *Compositor[T]) Compose(ctx context.Context, w pdfs.Writer[T], groups []Group, trackJobs bool) error {
	if err := w.RegisterFont(FontFamily, filepath.Join(c.DataDir, FontFile)); err != nil {
		return fmt.Errorf("registering font: %w", err)
	}
	for _, group := range groups {
		if err := c.ComposeGroup(ctx, w, group, trackJobs); err != nil {
			return err
		}
	}
	return nil
}

// ComposeGroup paginates one group and draws its pages.
// Item ids join the page membership before the slot's center check, so
// a slot skipped for a missing center still counts into the job.
func (c *Compositor[T]) ComposeGroup(ctx context.Context, w pdfs.Writer[T], group Group, trackJobs bool) error {
	cat := group.Category
	if cat.IsDonation() || cat.TemplateName() == "" {
		return nil
	}
	renderer, err := NewRenderer(c.Points, cat)
	if err != nil {
		return err
	}
	regionCodes := renderer.RegionCodes()
	if len(regionCodes) == 0 {
		log.Printf("[WARN] template %s has no slot regions; skipping %d items\n", cat.TemplateName(), len(group.Items))
		return nil
	}

	tplKey := cat.TemplateName()
	if !w.TemplateStore().Has(tplKey) {
		tplPath := filepath.Join(c.DataDir, TemplateDir, tplKey+".pdf")
		if err := w.ImportPageAsTemplate(tplPath, 1, tplKey); err != nil {
			return fmt.Errorf("importing template %s: %w", tplKey, err)
		}
	}

	for _, item := range group.Items {
		FoldUnbornParents(cat, item)
	}

	size := cat.PaperSize()
	for _, page := range Paginate(group.Items, len(regionCodes)) {
		memberIDs := make([]int64, 0, len(page))
		var pageMarks []TextMark
		drew := false
		for i, item := range page {
			memberIDs = append(memberIDs, item.ItemID)
			marks, ok := renderer.RenderSlot(regionCodes[i], item)
			if !ok {
				log.Printf("[WARN] region %s of template %s has no center point; slot skipped\n", regionCodes[i], tplKey)
				continue
			}
			drew = true
			pageMarks = append(pageMarks, marks...)
		}
		if !drew {
			continue
		}

		if !w.AddTemplatePage(tplKey, size) {
			log.Printf("[WARN] template %s missing from store; drawing on blank page\n", tplKey)
			w.AddBlankPage(size)
		}
		for _, mark := range pageMarks {
			if err := w.SetFont(FontFamily, "", mark.Size); err != nil {
				return err
			}
			w.Text(mark.X, size.Height-mark.Y, mark.Text)
		}

		if trackJobs && c.Tracker != nil {
			jobID, err := c.Tracker.GetOrCreate(ctx, memberIDs, size.Width, size.Height)
			if err != nil {
				return err
			}
			if err := c.stampJob(w, size, jobID); err != nil {
				return err
			}
		}
	}
	return nil
}

// stampJob draws the job QR code and its numeric label in the
// bottom-left page corner.
func (c *Compositor[T]) stampJob(w pdfs.Writer[T], size pdfs.PaperSize, jobID int64) error {
	img, err := qrPNG(c.Tracker.QRPayload(jobID))
	if err != nil {
		return fmt.Errorf("encoding job qr: %w", err)
	}
	if err := w.Image(img, qrMargin, size.Height-(qrMargin+qrSide), qrSide, qrSide); err != nil {
		return err
	}
	if err := w.SetFont(FontFamily, "", qrFontSize); err != nil {
		return err
	}
	w.Text(qrLabelX, size.Height-qrLabelY, strconv.FormatInt(jobID, 10))
	return nil
}

func qrPNG(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, qrPixels, qrPixels)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
