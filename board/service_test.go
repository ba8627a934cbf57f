package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zeptools/tablet-core/registry"
)

func newTestService(t *testing.T) (*Service, *registry.Service) {
	t.Helper()
	jobs := registry.NewService(registry.NewMemStore(), &sync.Map{})
	svc := &Service{
		Store: NewMemStore(),
		Jobs:  jobs,
	}
	return svc, jobs
}

func registerJob(t *testing.T, jobs *registry.Service, itemIDs ...int64) int64 {
	t.Helper()
	jobID, err := jobs.GetOrCreate(context.Background(), itemIDs, 595, 842)
	if err != nil {
		t.Fatalf("registering job: %v", err)
	}
	return jobID
}

func locations(t *testing.T, svc *Service, boardID int64) map[int64]int64 {
	t.Helper()
	slots, err := svc.Store.SlotsByBoard(context.Background(), boardID)
	if err != nil {
		t.Fatalf("loading slots: %v", err)
	}
	locs := make(map[int64]int64, len(slots))
	for _, slot := range slots {
		if !slot.JobID.IsNil() {
			locs[slot.JobID.Int64] = slot.Location
		}
	}
	return locs
}

func TestAssign_CreatesHeaderAndAppends(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobID := registerJob(t, jobs, 1)

	slot, err := svc.Assign(ctx, AssignParams{BoardID: 5, JobID: &jobID})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if slot.Location != 1 {
		t.Fatalf("first job must land at location 1, got %d", slot.Location)
	}

	header, err := svc.Store.HeaderByID(ctx, 5)
	if err != nil {
		t.Fatalf("header not created: %v", err)
	}
	if header.Name != "board_5" {
		t.Fatalf("unexpected default name: %q", header.Name)
	}

	second := registerJob(t, jobs, 2)
	slot2, err := svc.Assign(ctx, AssignParams{BoardID: 5, JobID: &second})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if slot2.Location != 2 {
		t.Fatalf("second job must append at 2, got %d", slot2.Location)
	}
}

func TestAssign_RejectsJobAlreadyPlaced(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobID := registerJob(t, jobs, 1)

	if _, err := svc.Assign(ctx, AssignParams{BoardID: 1, JobID: &jobID}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	_, err := svc.Assign(ctx, AssignParams{BoardID: 2, JobID: &jobID})
	var placed *JobAlreadyPlacedError
	if !errors.As(err, &placed) {
		t.Fatalf("expected JobAlreadyPlacedError, got %v", err)
	}
	if placed.BoardID != 1 {
		t.Fatalf("error must name the holding board, got %d", placed.BoardID)
	}
}

func TestAssign_FillsFirstEmptySlot(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()

	a := registerJob(t, jobs, 1)
	b := registerJob(t, jobs, 2)
	c := registerJob(t, jobs, 3)
	for _, id := range []int64{a, b, c} {
		jobID := id
		if _, err := svc.Assign(ctx, AssignParams{BoardID: 1, JobID: &jobID}); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
	}

	// free the middle slot, keeping its location
	slot, err := svc.Store.SlotByBoardAndJob(ctx, 1, b)
	if err != nil {
		t.Fatalf("finding slot: %v", err)
	}
	if err := svc.RemoveSlot(ctx, slot.ID); err != nil {
		t.Fatalf("removing slot: %v", err)
	}
	// reserve an empty slot at the vacated location
	if _, err := svc.Store.InsertSlot(ctx, &Slot{BoardID: 1, Location: slot.Location}); err != nil {
		t.Fatalf("reserving slot: %v", err)
	}

	d := registerJob(t, jobs, 4)
	placedSlot, err := svc.Assign(ctx, AssignParams{BoardID: 1, JobID: &d})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if placedSlot.Location != slot.Location {
		t.Fatalf("job must fill the empty slot at %d, got %d", slot.Location, placedSlot.Location)
	}
}

func TestAssign_HeaderOnlyUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	w, h := int64(4), int64(6)
	slot, err := svc.Assign(ctx, AssignParams{BoardID: 3, Name: "east wall", Width: &w, Height: &h})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if slot != nil {
		t.Fatal("a header-only assign must not create a slot")
	}

	header, err := svc.Store.HeaderByID(ctx, 3)
	if err != nil {
		t.Fatalf("header not created: %v", err)
	}
	if header.Name != "east wall" || header.Width.ForceValue() != 4 || header.Height.ForceValue() != 6 {
		t.Fatalf("unexpected header: %+v", header)
	}

	// partial update keeps the untouched fields
	w2 := int64(5)
	if _, err := svc.Assign(ctx, AssignParams{BoardID: 3, Width: &w2}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	header, _ = svc.Store.HeaderByID(ctx, 3)
	if header.Width.ForceValue() != 5 || header.Height.ForceValue() != 6 || header.Name != "east wall" {
		t.Fatalf("partial update clobbered fields: %+v", header)
	}
}

func boardWithJobs(t *testing.T, svc *Service, jobs *registry.Service, boardID int64, count int) []int64 {
	t.Helper()
	jobIDs := make([]int64, count)
	for i := 0; i < count; i++ {
		jobID := registerJob(t, jobs, int64(100+i))
		if _, err := svc.Assign(context.Background(), AssignParams{BoardID: boardID, JobID: &jobID}); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		jobIDs[i] = jobID
	}
	return jobIDs
}

func TestMove_Down(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobIDs := boardWithJobs(t, svc, jobs, 1, 5) // locations 1..5

	// move the job at 2 to 4: 3 and 4 shift down one
	if err := svc.Move(ctx, 1, jobIDs[1], 4); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	locs := locations(t, svc, 1)
	want := map[int64]int64{
		jobIDs[0]: 1, jobIDs[1]: 4, jobIDs[2]: 2, jobIDs[3]: 3, jobIDs[4]: 5,
	}
	for jobID, loc := range want {
		if locs[jobID] != loc {
			t.Fatalf("job %d at %d, want %d (all: %v)", jobID, locs[jobID], loc, locs)
		}
	}
}

func TestMove_Up(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobIDs := boardWithJobs(t, svc, jobs, 1, 5)

	// move the job at 4 to 2: 2 and 3 shift up one
	if err := svc.Move(ctx, 1, jobIDs[3], 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	locs := locations(t, svc, 1)
	want := map[int64]int64{
		jobIDs[0]: 1, jobIDs[1]: 3, jobIDs[2]: 4, jobIDs[3]: 2, jobIDs[4]: 5,
	}
	for jobID, loc := range want {
		if locs[jobID] != loc {
			t.Fatalf("job %d at %d, want %d (all: %v)", jobID, locs[jobID], loc, locs)
		}
	}
}

func TestMoveAt_ByLocation(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobIDs := boardWithJobs(t, svc, jobs, 1, 5)

	if err := svc.MoveAt(ctx, 1, 4, 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	locs := locations(t, svc, 1)
	want := map[int64]int64{
		jobIDs[0]: 1, jobIDs[1]: 3, jobIDs[2]: 4, jobIDs[3]: 2, jobIDs[4]: 5,
	}
	for jobID, loc := range want {
		if locs[jobID] != loc {
			t.Fatalf("job %d at %d, want %d (all: %v)", jobID, locs[jobID], loc, locs)
		}
	}

	if err := svc.MoveAt(ctx, 1, 99, 1); err == nil {
		t.Fatal("moving from an empty location must fail")
	}
}

func TestMove_SameLocationNoOp(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobIDs := boardWithJobs(t, svc, jobs, 1, 3)

	if err := svc.Move(ctx, 1, jobIDs[1], 2); err != nil {
		t.Fatalf("no-op move failed: %v", err)
	}
	locs := locations(t, svc, 1)
	if locs[jobIDs[0]] != 1 || locs[jobIDs[1]] != 2 || locs[jobIDs[2]] != 3 {
		t.Fatalf("no-op move must not shift anything: %v", locs)
	}
}

func TestMove_JobNotOnBoard(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	boardWithJobs(t, svc, jobs, 1, 2)
	stray := registerJob(t, jobs, 999)

	err := svc.Move(ctx, 1, stray, 1)
	var notOn *JobNotOnBoardError
	if !errors.As(err, &notOn) {
		t.Fatalf("expected JobNotOnBoardError, got %v", err)
	}
}

func TestRemoveSlot_KeepsGap(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	jobIDs := boardWithJobs(t, svc, jobs, 1, 3)

	slot, err := svc.Store.SlotByBoardAndJob(ctx, 1, jobIDs[1])
	if err != nil {
		t.Fatalf("finding slot: %v", err)
	}
	if err := svc.RemoveSlot(ctx, slot.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	locs := locations(t, svc, 1)
	if locs[jobIDs[0]] != 1 || locs[jobIDs[2]] != 3 {
		t.Fatalf("remaining slots must keep their locations: %v", locs)
	}

	if err := svc.RemoveSlot(ctx, slot.ID); err == nil {
		t.Fatal("removing a missing slot must fail")
	}
}

func TestClearBoard(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()
	boardWithJobs(t, svc, jobs, 1, 3)

	if err := svc.ClearBoard(ctx, 1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	slots, err := svc.Store.SlotsByBoard(ctx, 1)
	if err != nil {
		t.Fatalf("loading slots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("reserved slots must survive a clear, got %d", len(slots))
	}
	for _, slot := range slots {
		if !slot.JobID.IsNil() {
			t.Fatalf("slot %d still holds job %d", slot.ID, slot.JobID.Int64)
		}
	}
}

func TestLocateJob(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()

	w := int64(3)
	if _, err := svc.Assign(ctx, AssignParams{BoardID: 1, Name: "north", Width: &w}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	jobIDs := boardWithJobs(t, svc, jobs, 1, 5)

	placement, err := svc.LocateJob(ctx, jobIDs[4]) // location 5
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if placement == nil {
		t.Fatal("expected a placement")
	}
	if placement.BoardID != 1 || placement.BoardName != "north" {
		t.Fatalf("unexpected board: %+v", placement)
	}
	if placement.Location != 5 || placement.TotalOnBoard != 5 {
		t.Fatalf("unexpected placement: %+v", placement)
	}
	// width 3: location 5 -> row 2, col 2
	if placement.Row != 2 || placement.Col != 2 {
		t.Fatalf("unexpected grid position: row %d col %d", placement.Row, placement.Col)
	}

	missing, err := svc.LocateJob(ctx, 9999)
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if missing != nil {
		t.Fatal("an unplaced job must locate to nil")
	}
}
