package tablets

import (
	"sort"
	"strings"

	"github.com/zeptools/tablet-core/orders"
)

// Group - the items of one printable category, in item id order.
type Group struct {
	Category Category
	Items    []*orders.ItemPrintData
}

// GroupForPrint sorts items by id, drops donations and unknown codes,
// and groups the rest by category. Groups keep the order in which
// their category first occurs in the sorted list.
func GroupForPrint(items []*orders.ItemPrintData) []Group {
	sorted := make([]*orders.ItemPrintData, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })

	var groups []Group
	indexByCat := make(map[Category]int)
	for _, item := range sorted {
		if strings.HasPrefix(item.Code, donationCodePrefix) {
			continue
		}
		cat, ok := ParseCategory(item.Code)
		if !ok {
			continue
		}
		idx, seen := indexByCat[cat]
		if !seen {
			idx = len(groups)
			indexByCat[cat] = idx
			groups = append(groups, Group{Category: cat})
		}
		groups[idx].Items = append(groups[idx].Items, item)
	}
	return groups
}

// Paginate splits a group's items into pages of perPage slots.
func Paginate(items []*orders.ItemPrintData, perPage int) [][]*orders.ItemPrintData {
	if perPage <= 0 || len(items) == 0 {
		return nil
	}
	pages := make([][]*orders.ItemPrintData, 0, (len(items)+perPage-1)/perPage)
	for start := 0; start < len(items); start += perPage {
		end := min(start+perPage, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}
