package board

import "context"

// Store persists board headers and their slot grid. Lookups return
// sqldb.ErrNoRows when nothing matches.
type Store interface {
	HeaderByID(ctx context.Context, boardID int64) (*Header, error)
	Headers(ctx context.Context) ([]*Header, error)
	InsertHeader(ctx context.Context, h *Header) error
	UpdateHeader(ctx context.Context, h *Header) error

	// SlotsByBoard lists a board's slots in location order.
	SlotsByBoard(ctx context.Context, boardID int64) ([]*Slot, error)
	// SlotByJob finds the slot holding a job on any board.
	SlotByJob(ctx context.Context, jobID int64) (*Slot, error)
	SlotByBoardAndJob(ctx context.Context, boardID int64, jobID int64) (*Slot, error)
	// FirstEmptySlot returns the lowest-location reserved slot with no
	// job bound.
	FirstEmptySlot(ctx context.Context, boardID int64) (*Slot, error)
	MaxLocation(ctx context.Context, boardID int64) (int64, error)

	InsertSlot(ctx context.Context, s *Slot) (int64, error)
	SetSlotJob(ctx context.Context, slotID int64, jobID int64) error
	// ClearBoardSlots unbinds every job on the board; the slots stay
	// reserved at their locations.
	ClearBoardSlots(ctx context.Context, boardID int64) error
	// DeleteSlot removes one slot. Remaining locations keep their
	// numbers; the gap stays.
	DeleteSlot(ctx context.Context, slotID int64) error
	// MoveSlot shifts the slots between oldLoc and newLoc by one and
	// places the slot at newLoc, atomically.
	MoveSlot(ctx context.Context, boardID int64, slotID int64, oldLoc int64, newLoc int64) error
}
