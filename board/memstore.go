package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zeptools/tablet-core/db/sqldb"
	"github.com/zeptools/tablet-core/nullable"
)

// MemStore - in-memory Store for tests and single-process setups.
type MemStore struct {
	mu         sync.Mutex
	nextSlotID int64
	headers    map[int64]*Header
	slots      map[int64]*Slot
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		nextSlotID: 1,
		headers:    make(map[int64]*Header),
		slots:      make(map[int64]*Slot),
	}
}

func (s *MemStore) HeaderByID(_ context.Context, boardID int64) (*Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[boardID]
	if !ok {
		return nil, sqldb.ErrNoRows
	}
	cp := *h
	return &cp, nil
}

func (s *MemStore) Headers(_ context.Context) ([]*Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	headers := make([]*Header, 0, len(s.headers))
	for _, h := range s.headers {
		cp := *h
		headers = append(headers, &cp)
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].ID < headers[j].ID })
	return headers, nil
}

func (s *MemStore) InsertHeader(_ context.Context, h *Header) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.headers[h.ID] = &cp
	return nil
}

func (s *MemStore) UpdateHeader(_ context.Context, h *Header) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[h.ID]; !ok {
		return sqldb.ErrNoRows
	}
	cp := *h
	s.headers[h.ID] = &cp
	return nil
}

func (s *MemStore) SlotsByBoard(_ context.Context, boardID int64) ([]*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var slots []*Slot
	for _, slot := range s.slots {
		if slot.BoardID == boardID {
			cp := *slot
			slots = append(slots, &cp)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Location < slots[j].Location })
	return slots, nil
}

func (s *MemStore) SlotByJob(_ context.Context, jobID int64) (*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSlot(func(slot *Slot) bool {
		return !slot.JobID.IsNil() && slot.JobID.Int64 == jobID
	})
}

func (s *MemStore) SlotByBoardAndJob(_ context.Context, boardID int64, jobID int64) (*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSlot(func(slot *Slot) bool {
		return slot.BoardID == boardID && !slot.JobID.IsNil() && slot.JobID.Int64 == jobID
	})
}

func (s *MemStore) FirstEmptySlot(_ context.Context, boardID int64) (*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *Slot
	for _, slot := range s.slots {
		if slot.BoardID != boardID || !slot.JobID.IsNil() {
			continue
		}
		if found == nil || slot.Location < found.Location {
			found = slot
		}
	}
	if found == nil {
		return nil, sqldb.ErrNoRows
	}
	cp := *found
	return &cp, nil
}

// findSlot must run under mu. Ties break on slot id for determinism.
func (s *MemStore) findSlot(match func(*Slot) bool) (*Slot, error) {
	var found *Slot
	for _, slot := range s.slots {
		if match(slot) && (found == nil || slot.ID < found.ID) {
			found = slot
		}
	}
	if found == nil {
		return nil, sqldb.ErrNoRows
	}
	cp := *found
	return &cp, nil
}

func (s *MemStore) MaxLocation(_ context.Context, boardID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxLoc int64
	for _, slot := range s.slots {
		if slot.BoardID == boardID && slot.Location > maxLoc {
			maxLoc = slot.Location
		}
	}
	return maxLoc, nil
}

func (s *MemStore) InsertSlot(_ context.Context, slot *Slot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *slot
	cp.ID = s.nextSlotID
	s.nextSlotID++
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.slots[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemStore) ClearBoardSlots(_ context.Context, boardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.BoardID == boardID {
			slot.JobID = nullable.Int{}
		}
	}
	return nil
}

func (s *MemStore) SetSlotJob(_ context.Context, slotID int64, jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return sqldb.ErrNoRows
	}
	slot.JobID.Int64 = jobID
	slot.JobID.Valid = true
	return nil
}

func (s *MemStore) DeleteSlot(_ context.Context, slotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slotID]; !ok {
		return sqldb.ErrNoRows
	}
	delete(s.slots, slotID)
	return nil
}

func (s *MemStore) MoveSlot(_ context.Context, boardID int64, slotID int64, oldLoc int64, newLoc int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if oldLoc == newLoc {
		return nil
	}
	for _, slot := range s.slots {
		if slot.BoardID != boardID || slot.ID == slotID {
			continue
		}
		if oldLoc < newLoc {
			if slot.Location > oldLoc && slot.Location <= newLoc {
				slot.Location--
			}
		} else {
			if slot.Location >= newLoc && slot.Location < oldLoc {
				slot.Location++
			}
		}
	}
	slot, ok := s.slots[slotID]
	if !ok {
		return sqldb.ErrNoRows
	}
	slot.Location = newLoc
	return nil
}
