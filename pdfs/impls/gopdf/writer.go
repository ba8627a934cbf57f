package gopdf

import (
	"fmt"
	"io"
	"log"

	lowimpl "github.com/signintech/gopdf"
	"github.com/zeptools/tablet-core/pdfs"
)

// Writer - append-only PDF writer on top of signintech/gopdf.
// Imported template pages are stored as gopdf template ids (int).
type Writer struct {
	pdf           *lowimpl.GoPdf
	templateStore *pdfs.TemplateStore[int]
	pageCnt       int
}

// Ensure gopdf.Writer implements pdfs.Writer[int] interface
var _ pdfs.Writer[int] = (*Writer)(nil)

func NewWriter(initial pdfs.PaperSize) *Writer {
	pdf := &lowimpl.GoPdf{}
	pdf.Start(lowimpl.Config{
		PageSize: lowimpl.Rect{W: initial.Width, H: initial.Height},
	})
	return &Writer{
		pdf:           pdf,
		templateStore: pdfs.NewTemplateStore[int](),
	}
}

func (w *Writer) TemplateStore() *pdfs.TemplateStore[int] {
	return w.templateStore
}

func (w *Writer) ImportPageAsTemplate(filepath string, pageNum int, storeKey string) error {
	tplID := w.pdf.ImportPage(filepath, pageNum, "/MediaBox")
	if tplID <= 0 {
		return fmt.Errorf("failed to import page %d of %s", pageNum, filepath)
	}
	w.templateStore.Store(storeKey, tplID)
	return nil
}

func (w *Writer) AddBlankPage(size pdfs.PaperSize) {
	w.pdf.AddPageWithOption(lowimpl.PageOption{
		PageSize: &lowimpl.Rect{W: size.Width, H: size.Height},
	})
	w.pageCnt++
}

func (w *Writer) AddTemplatePage(storeKey string, size pdfs.PaperSize) bool {
	tplID, ok := w.templateStore.Get(storeKey)
	if !ok {
		return false
	}
	w.AddBlankPage(size)
	w.pdf.UseImportedTemplate(tplID, 0, 0, size.Width, size.Height)
	return true
}

func (w *Writer) PageCount() int {
	return w.pageCnt
}

func (w *Writer) RegisterFont(family string, ttfPath string) error {
	return w.pdf.AddTTFFont(family, ttfPath)
}

func (w *Writer) SetFont(family string, style string, size float64) error {
	return w.pdf.SetFont(family, style, size)
}

func (w *Writer) Text(x float64, y float64, text string) {
	w.pdf.SetX(x)
	w.pdf.SetY(y)
	if err := w.pdf.Cell(nil, text); err != nil {
		log.Printf("[WARN] pdf text %q at (%.1f, %.1f) failed: %v", text, x, y, err)
	}
}

func (w *Writer) Image(imgData []byte, x float64, y float64, width float64, height float64) error {
	holder, err := lowimpl.ImageHolderByBytes(imgData)
	if err != nil {
		return err
	}
	return w.pdf.ImageByHolder(holder, x, y, &lowimpl.Rect{W: width, H: height})
}

func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	return w.pdf.WriteTo(dst)
}

func (w *Writer) WriteToFile(filepath string) error {
	return w.pdf.WritePdf(filepath)
}

func (w *Writer) ProduceBytes() ([]byte, error) {
	return w.pdf.GetBytesPdf(), nil
}
