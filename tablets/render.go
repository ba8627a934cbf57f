package tablets

import (
	"sort"
	"strconv"

	"github.com/zeptools/tablet-core/orders"
	"github.com/zeptools/tablet-core/points"
)

// TextMark - one text placement in the bottom-left page frame.
// Vertical runs are emitted as one mark per character.
type TextMark struct {
	X    float64
	Y    float64
	Size float64
	Text string
}

// Renderer lays the slots of one category group out as text marks.
// Region point data and the owner/deceased count buckets come from the
// point config store, loaded once per render pass.
type Renderer struct {
	Category      Category
	Regions       map[string]points.RegionPoints
	OwnerPoints   points.CountPoints
	DeceasedPoint points.CountPoints
}

// NewRenderer loads the point config for one category.
func NewRenderer(store *points.Store, cat Category) (*Renderer, error) {
	regions, err := store.LoadRegionPoints(cat.TemplateName())
	if err != nil {
		return nil, err
	}
	suffix := cat.PointSuffix()
	ownerPts, err := store.LoadCountPoints("owner_point_" + suffix)
	if err != nil {
		return nil, err
	}
	deceasedPts, err := store.LoadCountPoints("deceased_point_" + suffix)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Category:      cat,
		Regions:       regions,
		OwnerPoints:   ownerPts,
		DeceasedPoint: deceasedPts,
	}, nil
}

// RegionCodes returns the slot region codes in lexical order.
// Their count is the page capacity of the template.
func (r *Renderer) RegionCodes() []string {
	codes := make([]string, 0, len(r.Regions))
	for code := range r.Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// RenderSlot draws one item into one slot region. Returns false when
// the region has no center point; the slot is skipped then.
func (r *Renderer) RenderSlot(regionCode string, item *orders.ItemPrintData) ([]TextMark, bool) {
	rp, ok := r.Regions[regionCode]
	if !ok {
		return nil, false
	}
	center, ok := rp["center"]
	if !ok {
		return nil, false
	}
	baseX, baseY := center.DX, center.DY

	var marks []TextMark
	marks = appendVertical(marks, baseX, baseY, center.Size, center.Spacing, CenterText(r.Category, item.Form))

	marks = r.appendField(marks, rp, baseX, baseY, "folichaodu", SideCaption(r.Category, item.Form))
	marks = r.appendField(marks, rp, baseX, baseY, "baijian", CaptionDedication)
	marks = r.appendField(marks, rp, baseX, baseY, "lianwei", CaptionLotusSeat)
	marks = r.appendField(marks, rp, baseX, baseY, "yangshang", CaptionLiving)

	marks = r.appendOwner(marks, rp, baseX, baseY, item.Form)

	fatherPrefix, motherPrefix := ParentPrefixes(r.Category)
	if item.Form.Has("father") {
		marks = r.appendField(marks, rp, baseX, baseY, "father", fatherPrefix+item.Form.Joined("father"))
	}
	if item.Form.Has("mother") {
		marks = r.appendField(marks, rp, baseX, baseY, "mother", motherPrefix+item.Form.Joined("mother"))
	}

	marks = r.appendOrderID(marks, rp, baseX, baseY, item.OrderID)

	if r.Category != CatA3 && r.Category != CatB3 {
		marks = r.appendDeceased(marks, rp, baseX, baseY, item.Form)
	}
	return marks, true
}

// appendField draws a plain field vertically at its region point.
// Missing points are silent no-ops.
func (r *Renderer) appendField(marks []TextMark, rp points.RegionPoints, baseX, baseY float64, field string, text string) []TextMark {
	pt, ok := rp[field]
	if !ok {
		return marks
	}
	return appendVertical(marks, baseX+pt.DX, baseY+pt.DY, pt.Size, pt.Spacing, text)
}

// appendOwner draws the owner names, one vertical run per person,
// each at its own count-bucket placement. Counts outside 1..6 drop
// the whole field.
func (r *Renderer) appendOwner(marks []TextMark, rp points.RegionPoints, baseX, baseY float64, form orders.FormData) []TextMark {
	pt, ok := rp["owner"]
	if !ok {
		return marks
	}
	people := splitAllNames(form.Values("owner"))
	placements, ok := r.OwnerPoints[len(people)]
	if !ok {
		return marks
	}
	anchorX, anchorY := baseX+pt.DX, baseY+pt.DY
	for i, name := range people {
		if i >= len(placements) {
			break
		}
		p := placements[i]
		marks = appendVertical(marks, anchorX+p.DX, anchorY+p.DY, p.Size, p.Spacing, name)
	}
	return marks
}

// appendDeceased draws relation + name pairs vertically, reversing the
// column order when a paired relation set is present.
func (r *Renderer) appendDeceased(marks []TextMark, rp points.RegionPoints, baseX, baseY float64, form orders.FormData) []TextMark {
	pt, ok := rp["deceased"]
	if !ok {
		return marks
	}
	people := splitAllNames(form.Values("deceased"))
	relations := splitAllNames(form.Values("relation"))
	relations = PadRelations(relations, len(people))
	people, relations = ReverseOnPairedRelations(people, relations)

	placements, ok := r.DeceasedPoint[len(people)]
	if !ok {
		return marks
	}
	anchorX, anchorY := baseX+pt.DX, baseY+pt.DY
	for i, name := range people {
		if i >= len(placements) {
			break
		}
		p := placements[i]
		marks = appendVertical(marks, anchorX+p.DX, anchorY+p.DY, p.Size, p.Spacing, relations[i]+" "+name)
	}
	return marks
}

// appendOrderID draws the order id as one horizontal run.
func (r *Renderer) appendOrderID(marks []TextMark, rp points.RegionPoints, baseX, baseY float64, orderID int64) []TextMark {
	pt, ok := rp["order_id"]
	if !ok {
		return marks
	}
	return append(marks, TextMark{
		X:    baseX + pt.DX,
		Y:    baseY + pt.DY,
		Size: pt.Size,
		Text: strconv.FormatInt(orderID, 10),
	})
}

// appendVertical emits one mark per character down the column.
func appendVertical(marks []TextMark, x, y, size, spacing float64, text string) []TextMark {
	i := 0
	for _, ch := range text {
		marks = append(marks, TextMark{
			X:    x,
			Y:    y - float64(i)*spacing,
			Size: size,
			Text: string(ch),
		})
		i++
	}
	return marks
}

// splitAllNames flattens a multi-valued field, splitting each value on
// commas and whitespace.
func splitAllNames(values []string) []string {
	var names []string
	for _, v := range values {
		names = append(names, SplitNames(v)...)
	}
	return names
}
