package tablets

import (
	"testing"

	"github.com/zeptools/tablet-core/orders"
)

func item(id int64, code string) *orders.ItemPrintData {
	return &orders.ItemPrintData{ItemID: id, Code: code, Form: orders.FormData{}}
}

func TestGroupForPrint_SortsAndGroups(t *testing.T) {
	groups := GroupForPrint([]*orders.ItemPrintData{
		item(5, "B1"),
		item(2, "A1"),
		item(9, "A1"),
		item(1, "B1"),
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// B1 first: item 1 is the lowest id overall
	if groups[0].Category != CatB1 || groups[1].Category != CatA1 {
		t.Fatalf("groups must follow first occurrence in id order, got %v then %v",
			groups[0].Category, groups[1].Category)
	}
	if groups[0].Items[0].ItemID != 1 || groups[0].Items[1].ItemID != 5 {
		t.Fatal("items within a group must be in ascending id order")
	}
	if groups[1].Items[0].ItemID != 2 || groups[1].Items[1].ItemID != 9 {
		t.Fatal("items within a group must be in ascending id order")
	}
}

func TestGroupForPrint_DropsDonationsAndUnknownCodes(t *testing.T) {
	groups := GroupForPrint([]*orders.ItemPrintData{
		item(1, "D1"),
		item(2, "D"),
		item(3, "X9"),
		item(4, "C"),
	})

	if len(groups) != 1 || groups[0].Category != CatC {
		t.Fatalf("only the C item should survive, got %+v", groups)
	}
}

func TestGroupForPrint_Empty(t *testing.T) {
	if groups := GroupForPrint(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
	if groups := GroupForPrint([]*orders.ItemPrintData{item(1, "D1")}); len(groups) != 0 {
		t.Fatalf("donation-only input must produce no groups, got %d", len(groups))
	}
}

func TestPaginate(t *testing.T) {
	items := []*orders.ItemPrintData{
		item(1, "B1"), item(2, "B1"), item(3, "B1"),
		item(4, "B1"), item(5, "B1"), item(6, "B1"), item(7, "B1"),
	}

	pages := Paginate(items, 5)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0]) != 5 || len(pages[1]) != 2 {
		t.Fatalf("unexpected page sizes: %d, %d", len(pages[0]), len(pages[1]))
	}
	if pages[1][0].ItemID != 6 {
		t.Fatal("pages must be consecutive slices of the item order")
	}

	if Paginate(items, 0) != nil {
		t.Fatal("a zero-capacity template must paginate to nothing")
	}
	if Paginate(nil, 5) != nil {
		t.Fatal("no items, no pages")
	}
}
