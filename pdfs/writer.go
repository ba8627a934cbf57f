package pdfs

import "io"

// Writer — minimal, stream-style, append-only PDF writer. No page navigation
// T: Concrete Template Type -> depends on each implementation
// Coordinates are top-left based, in pt.
type Writer[T any] interface {
	TemplateStore() *TemplateStore[T]
	ImportPageAsTemplate(filepath string, pageNum int, storeKey string) error

	// AddBlankPage / AddTemplatePage take the paper size per page,
	// so portrait and landscape pages can mix in one document.
	AddBlankPage(size PaperSize)
	AddTemplatePage(storeKey string, size PaperSize) bool

	PageCount() int

	RegisterFont(family string, ttfPath string) error
	SetFont(family string, style string, size float64) error

	Text(x float64, y float64, text string)
	Image(imgData []byte, x float64, y float64, w float64, h float64) error

	WriteTo(w io.Writer) (int64, error)
	WriteToFile(filepath string) error
	ProduceBytes() ([]byte, error)
}
