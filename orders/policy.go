package orders

import (
	"fmt"
	"slices"
)

// Change - what a mutating operation is about to touch.
type Change struct {
	Kind          ChangeKind
	ChangedFields []string // order-column names. nil for item / form-data changes
}

type ChangeKind int

const (
	ChangeOrderUpdate ChangeKind = iota
	ChangeOrderDelete
	ChangeItemWrite     // insert/update/delete of an order item
	ChangeFormDataWrite // insert/update/delete of an item form field
)

// ReadOnlyOrderError - the parent order's version is closed for edits.
type ReadOnlyOrderError struct {
	Version string
	Change  Change
}

func (e *ReadOnlyOrderError) Error() string {
	switch e.Change.Kind {
	case ChangeOrderDelete:
		return fmt.Sprintf("order version %q is read-only and cannot be deleted", e.Version)
	case ChangeItemWrite:
		return fmt.Sprintf("cannot modify order item: parent order version %q is read-only", e.Version)
	case ChangeFormDataWrite:
		return fmt.Sprintf("cannot modify item form data: parent order version %q is read-only", e.Version)
	default:
		return fmt.Sprintf("order version %q is read-only (except phone)", e.Version)
	}
}

// Policy decides whether an order tree may be mutated. Callers pass the
// parent order's version down explicitly; mutating operations call
// CanMutate before touching any row.
type Policy struct {
	ReadOnlyVersions []string
}

func (p *Policy) readOnly(version string) bool {
	return slices.Contains(p.ReadOnlyVersions, version)
}

// CanMutate returns a ReadOnlyOrderError when the change is not allowed.
// Read-only orders still accept updates that change nothing but the phone.
func (p *Policy) CanMutate(orderVersion string, change Change) error {
	if !p.readOnly(orderVersion) {
		return nil
	}
	if change.Kind == ChangeOrderUpdate && phoneOnly(change.ChangedFields) {
		return nil
	}
	return &ReadOnlyOrderError{Version: orderVersion, Change: change}
}

func phoneOnly(changedFields []string) bool {
	return len(changedFields) == 1 && changedFields[0] == "phone"
}
