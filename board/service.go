package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeptools/tablet-core/db/sqldb"
	"github.com/zeptools/tablet-core/nullable"
	"github.com/zeptools/tablet-core/orders"
	"github.com/zeptools/tablet-core/orm"
	"github.com/zeptools/tablet-core/registry"
)

// JobSource - the registry side the board views need.
type JobSource interface {
	Job(ctx context.Context, jobID int64) (*registry.PrintJob, error)
	MemberItemIDs(ctx context.Context, jobID int64) ([]int64, error)
}

// OrderSource - the order side the board views need.
type OrderSource interface {
	ItemsByIDs(ctx context.Context, itemIDs []int64) (*orm.Collection[*orders.OrderItem, int64], error)
	OrdersByIDs(ctx context.Context, ids []int64) (*orm.Collection[*orders.Order, int64], error)
}

// Service - board slot allocation and views.
type Service struct {
	Store  Store
	Jobs   JobSource
	Orders OrderSource
}

// AssignParams - one hang-job request. JobID nil manages the header
// only. Width/Height/Name update the header when given.
type AssignParams struct {
	BoardID int64
	JobID   *int64
	Name    string
	Width   *int64
	Height  *int64
}

// Assign hangs a print job on a board. The job fills the first empty
// reserved slot, keeping that slot's location; with no empty slot it
// appends at max(location)+1. A missing header is created on the fly
// with the requested id.
func (s *Service) Assign(ctx context.Context, p AssignParams) (*Slot, error) {
	if p.JobID != nil {
		if _, err := s.Jobs.Job(ctx, *p.JobID); err != nil {
			if errors.Is(err, sqldb.ErrNoRows) {
				return nil, fmt.Errorf("print job %d not found", *p.JobID)
			}
			return nil, err
		}
		existing, err := s.Store.SlotByJob(ctx, *p.JobID)
		if err != nil && !errors.Is(err, sqldb.ErrNoRows) {
			return nil, err
		}
		if existing != nil {
			return nil, &JobAlreadyPlacedError{JobID: *p.JobID, BoardID: existing.BoardID}
		}
	}

	if err := s.ensureHeader(ctx, p); err != nil {
		return nil, err
	}
	if p.JobID == nil {
		return nil, nil
	}
	return s.placeJob(ctx, p.BoardID, *p.JobID)
}

func (s *Service) ensureHeader(ctx context.Context, p AssignParams) error {
	header, err := s.Store.HeaderByID(ctx, p.BoardID)
	if err != nil {
		if !errors.Is(err, sqldb.ErrNoRows) {
			return err
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("board_%d", p.BoardID)
		}
		header = &Header{ID: p.BoardID, Name: name}
		if p.Width != nil {
			header.Width = nullable.IntFrom(*p.Width)
		}
		if p.Height != nil {
			header.Height = nullable.IntFrom(*p.Height)
		}
		return s.Store.InsertHeader(ctx, header)
	}

	if p.Name != "" {
		header.Name = p.Name
	}
	if p.Width != nil {
		header.Width = nullable.IntFrom(*p.Width)
	}
	if p.Height != nil {
		header.Height = nullable.IntFrom(*p.Height)
	}
	return s.Store.UpdateHeader(ctx, header)
}

func (s *Service) placeJob(ctx context.Context, boardID int64, jobID int64) (*Slot, error) {
	empty, err := s.Store.FirstEmptySlot(ctx, boardID)
	if err == nil {
		if err := s.Store.SetSlotJob(ctx, empty.ID, jobID); err != nil {
			return nil, err
		}
		empty.JobID = nullable.IntFrom(jobID)
		return empty, nil
	}
	if !errors.Is(err, sqldb.ErrNoRows) {
		return nil, err
	}

	maxLoc, err := s.Store.MaxLocation(ctx, boardID)
	if err != nil {
		return nil, err
	}
	slot := &Slot{
		BoardID:  boardID,
		JobID:    nullable.IntFrom(jobID),
		Location: maxLoc + 1,
	}
	slot.ID, err = s.Store.InsertSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// Move repositions a job on its board. The slots between the old and
// new location shift by one towards the vacated spot; equal locations
// are a no-op.
func (s *Service) Move(ctx context.Context, boardID int64, jobID int64, newLocation int64) error {
	slot, err := s.Store.SlotByBoardAndJob(ctx, boardID, jobID)
	if err != nil {
		if errors.Is(err, sqldb.ErrNoRows) {
			return &JobNotOnBoardError{JobID: jobID, BoardID: boardID}
		}
		return err
	}
	if slot.Location == newLocation {
		return nil
	}
	return s.Store.MoveSlot(ctx, boardID, slot.ID, slot.Location, newLocation)
}

// MoveAt repositions whatever hangs at fromLocation, addressing the
// slot by its grid number instead of its job.
func (s *Service) MoveAt(ctx context.Context, boardID int64, fromLocation int64, toLocation int64) error {
	if fromLocation == toLocation {
		return nil
	}
	slots, err := s.Store.SlotsByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.Location == fromLocation {
			return s.Store.MoveSlot(ctx, boardID, slot.ID, slot.Location, toLocation)
		}
	}
	return fmt.Errorf("board %d has no slot at location %d", boardID, fromLocation)
}

// RemoveSlot takes one slot off its board. The other slots keep their
// locations; the freed number stays as a gap.
func (s *Service) RemoveSlot(ctx context.Context, slotID int64) error {
	return s.Store.DeleteSlot(ctx, slotID)
}

// LocateJob finds where a job hangs. Returns nil when the job is not
// on any board.
func (s *Service) LocateJob(ctx context.Context, jobID int64) (*Placement, error) {
	slot, err := s.Store.SlotByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, sqldb.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	header, err := s.Store.HeaderByID(ctx, slot.BoardID)
	if err != nil {
		return nil, err
	}
	slots, err := s.Store.SlotsByBoard(ctx, slot.BoardID)
	if err != nil {
		return nil, err
	}
	placement := &Placement{
		BoardID:      header.ID,
		BoardName:    header.Name,
		SlotID:       slot.ID,
		Location:     slot.Location,
		TotalOnBoard: len(slots),
	}
	if !header.Width.IsNil() && header.Width.Int64 > 0 {
		placement.Row = (slot.Location-1)/header.Width.Int64 + 1
		placement.Col = (slot.Location-1)%header.Width.Int64 + 1
	}
	return placement, nil
}

// OrderSummary - one order represented on a slot's page.
type OrderSummary struct {
	OrderItemID     int64           `json:"order_item_id"`
	OrderID         int64           `json:"order_id"`
	CustomerName    nullable.String `json:"customer_name"`
	OwnerOrDeceased string          `json:"owner_or_deceased"`
}

// SlotView - one slot with its job's page geometry and order roll.
// Row/Col derive from the header width on every read; they are never
// stored.
type SlotView struct {
	SlotID   int64          `json:"slot_id"`
	Location int64          `json:"location"`
	Row      int64          `json:"row,omitzero"`
	Col      int64          `json:"col,omitzero"`
	JobID    nullable.Int   `json:"job_id"`
	Width    float64        `json:"width,omitzero"`
	Height   float64        `json:"height,omitzero"`
	Orders   []OrderSummary `json:"orders"`
}

// BoardView - one board with all its slots in location order.
type BoardView struct {
	BoardID int64        `json:"board_id"`
	Name    string       `json:"board_name"`
	Width   nullable.Int `json:"board_width"`
	Height  nullable.Int `json:"board_height"`
	Slots   []SlotView   `json:"slots"`
}

// List builds one board's view: its slots in location order, each with
// the orders standing behind its hung page.
func (s *Service) List(ctx context.Context, boardID int64) (*BoardView, error) {
	header, err := s.Store.HeaderByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return s.boardView(ctx, header)
}

// ListAll builds the full board overview: every board, every slot.
// Each order appears once per slot even when several of its items
// share the page.
func (s *Service) ListAll(ctx context.Context) ([]BoardView, error) {
	headers, err := s.Store.Headers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]BoardView, 0, len(headers))
	for _, header := range headers {
		view, err := s.boardView(ctx, header)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) boardView(ctx context.Context, header *Header) (*BoardView, error) {
	slots, err := s.Store.SlotsByBoard(ctx, header.ID)
	if err != nil {
		return nil, err
	}
	view := &BoardView{
		BoardID: header.ID,
		Name:    header.Name,
		Width:   header.Width,
		Height:  header.Height,
		Slots:   make([]SlotView, 0, len(slots)),
	}
	gridWidth := int64(0)
	if !header.Width.IsNil() && header.Width.Int64 > 0 {
		gridWidth = header.Width.Int64
	}
	for _, slot := range slots {
		sv := SlotView{
			SlotID:   slot.ID,
			Location: slot.Location,
			JobID:    slot.JobID,
			Orders:   []OrderSummary{},
		}
		if gridWidth > 0 {
			sv.Row = (slot.Location-1)/gridWidth + 1
			sv.Col = (slot.Location-1)%gridWidth + 1
		}
		if !slot.JobID.IsNil() {
			if err := s.fillSlotView(ctx, &sv, slot.JobID.Int64); err != nil {
				return nil, err
			}
		}
		view.Slots = append(view.Slots, sv)
	}
	return view, nil
}

// ClearBoard takes every job off a board. The reserved slots and
// their locations stay.
func (s *Service) ClearBoard(ctx context.Context, boardID int64) error {
	if _, err := s.Store.HeaderByID(ctx, boardID); err != nil {
		return err
	}
	return s.Store.ClearBoardSlots(ctx, boardID)
}

func (s *Service) fillSlotView(ctx context.Context, sv *SlotView, jobID int64) error {
	job, err := s.Jobs.Job(ctx, jobID)
	if err != nil {
		if errors.Is(err, sqldb.ErrNoRows) {
			return nil // dangling slot, job cleared since
		}
		return err
	}
	sv.Width = job.Width
	sv.Height = job.Height

	itemIDs, err := s.Jobs.MemberItemIDs(ctx, jobID)
	if err != nil {
		return err
	}
	if len(itemIDs) == 0 {
		return nil
	}
	items, err := s.Orders.ItemsByIDs(ctx, itemIDs)
	if err != nil {
		return err
	}
	orderIDs := orm.CollectUniqueToSlice(items, func(i *orders.OrderItem) *int64 { return &i.OrderID })
	orderRecs, err := s.Orders.OrdersByIDs(ctx, orderIDs)
	if err != nil {
		return err
	}

	seen := make(map[int64]struct{})
	items.ForEach(func(item *orders.OrderItem) {
		if _, dup := seen[item.OrderID]; dup {
			return
		}
		seen[item.OrderID] = struct{}{}
		summary := OrderSummary{
			OrderItemID:     item.ID,
			OrderID:         item.OrderID,
			OwnerOrDeceased: ownerOrDeceased(item),
		}
		if order, ok := orderRecs.Find(item.OrderID); ok {
			summary.CustomerName = order.CustomerName
		}
		sv.Orders = append(sv.Orders, summary)
	})
	return nil
}

// ownerOrDeceased picks the display name for an item: the owner field
// first, the deceased field as fallback.
func ownerOrDeceased(item *orders.OrderItem) string {
	data := item.PrintData()
	if v := data.Form.First("owner"); v != "" {
		return v
	}
	return data.Form.First("deceased")
}
