package tablets

import (
	"strings"

	"github.com/zeptools/tablet-core/pdfs"
)

// Category - closed set of tablet item codes. Unknown codes do not
// construct a Category; ParseCategory rejects them upfront.
type Category string

const (
	CatA1 Category = "A1"
	CatA2 Category = "A2"
	CatA3 Category = "A3"
	CatB1 Category = "B1"
	CatB2 Category = "B2"
	CatB3 Category = "B3"
	CatC  Category = "C"
	CatD1 Category = "D1"
)

var allCategories = []Category{CatA1, CatA2, CatA3, CatB1, CatB2, CatB3, CatC, CatD1}

const donationCodePrefix = "D"

func ParseCategory(code string) (Category, bool) {
	for _, c := range allCategories {
		if string(c) == code {
			return c, true
		}
	}
	return "", false
}

// IsDonation - donation categories carry no tablet and are never rendered.
func (c Category) IsDonation() bool {
	return strings.HasPrefix(string(c), donationCodePrefix)
}

// TemplateName - background template page for the category.
// "" for donation categories.
func (c Category) TemplateName() string {
	switch c {
	case CatA1, CatA2, CatA3:
		return "paiwei_1"
	case CatB1, CatB2, CatB3:
		return "paiwei_5"
	case CatC:
		return "paiwei_10"
	case CatD1:
		return ""
	}
	return ""
}

// PointSuffix - suffix of the owner/deceased count-bucket documents,
// e.g. "A" -> owner_point_A.json. "" for donation categories.
func (c Category) PointSuffix() string {
	switch c {
	case CatA1, CatA2, CatA3:
		return "A"
	case CatB1, CatB2, CatB3:
		return "B"
	case CatC:
		return "C"
	case CatD1:
		return ""
	}
	return ""
}

// Landscape - only the B-family template prints landscape.
func (c Category) Landscape() bool {
	return c.TemplateName() == "paiwei_5"
}

func (c Category) PaperSize() pdfs.PaperSize {
	if c.Landscape() {
		return pdfs.A4LandscapeSize
	}
	return pdfs.A4Size
}
