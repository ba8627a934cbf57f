package orders

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zeptools/tablet-core/nullable"
	"github.com/zeptools/tablet-core/orm"
)

func itemWithFields(code string, price float64, fields ...[2]string) *OrderItem {
	item := &OrderItem{
		ID:          1,
		OrderID:     10,
		Code:        code,
		ItemName:    "item",
		Price:       price,
		FieldValues: orm.NewEmptyOrderedCollection[*FieldValue, int64](),
	}
	for i, f := range fields {
		item.FieldValues.Add(&FieldValue{
			ID:         int64(i + 1),
			ItemID:     item.ID,
			FieldName:  f[0],
			FieldValue: nullable.StringFrom(f[1]),
		})
	}
	return item
}

func TestPrintData_FoldsRepeatedFields(t *testing.T) {
	item := itemWithFields("A1", 100,
		[2]string{"surname", "王"},
		[2]string{"owner", "王大"},
		[2]string{"owner", "王二"},
		[2]string{"owner", "王三"},
	)

	data := item.PrintData()
	want := FormData{
		"surname": {"王"},
		"owner":   {"王大", "王二", "王三"},
	}
	if diff := cmp.Diff(want, data.Form); diff != "" {
		t.Fatalf("folded form mismatch (-want +got):\n%s", diff)
	}
	if data.Price != 100 {
		t.Fatalf("price = %d, want 100", data.Price)
	}
}

func TestPrintData_DonationPriceOverride(t *testing.T) {
	item := itemWithFields("D", 0, [2]string{"price", "888"})
	if got := item.PrintData().Price; got != 888 {
		t.Fatalf("donation price = %d, want 888", got)
	}

	// the override is for code D exactly, not the D-prefixed categories
	item = itemWithFields("D1", 50, [2]string{"price", "888"})
	if got := item.PrintData().Price; got != 50 {
		t.Fatalf("D1 price = %d, want 50", got)
	}

	// garbage price falls back to 0
	item = itemWithFields("D", 0, [2]string{"price", "eight"})
	if got := item.PrintData().Price; got != 0 {
		t.Fatalf("unparsable price = %d, want 0", got)
	}
}

func TestPrintData_NoFieldValues(t *testing.T) {
	item := &OrderItem{ID: 1, Code: "A1", Price: 30}
	data := item.PrintData()
	if len(data.Form) != 0 {
		t.Fatalf("expected empty form, got %v", data.Form)
	}
	if data.Price != 30 {
		t.Fatalf("price = %d, want 30", data.Price)
	}
}

func TestPolicy_CanMutate(t *testing.T) {
	policy := &Policy{ReadOnlyVersions: []string{"2023", "2024"}}

	if err := policy.CanMutate("2025", Change{Kind: ChangeItemWrite}); err != nil {
		t.Fatalf("open version must allow writes: %v", err)
	}

	err := policy.CanMutate("2024", Change{Kind: ChangeItemWrite})
	var roErr *ReadOnlyOrderError
	if !errors.As(err, &roErr) {
		t.Fatalf("expected ReadOnlyOrderError, got %v", err)
	}
	if roErr.Version != "2024" {
		t.Fatalf("error names version %q, want 2024", roErr.Version)
	}

	if err := policy.CanMutate("2023", Change{Kind: ChangeOrderDelete}); err == nil {
		t.Fatal("read-only version must reject deletes")
	}
}

func TestPolicy_PhoneOnlyUpdateAllowed(t *testing.T) {
	policy := &Policy{ReadOnlyVersions: []string{"2024"}}

	change := Change{Kind: ChangeOrderUpdate, ChangedFields: []string{"phone"}}
	if err := policy.CanMutate("2024", change); err != nil {
		t.Fatalf("phone-only update must pass: %v", err)
	}

	change.ChangedFields = []string{"phone", "email"}
	if err := policy.CanMutate("2024", change); err == nil {
		t.Fatal("update touching more than phone must be rejected")
	}
}
