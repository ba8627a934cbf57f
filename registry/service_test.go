package registry

import (
	"context"
	"sync"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemStore(), &sync.Map{})
}

func TestGetOrCreate_NewJob(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	jobID, err := svc.GetOrCreate(ctx, []int64{3, 1, 2}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if jobID == 0 {
		t.Fatal("expected a job id")
	}

	members, err := svc.MemberItemIDs(ctx, jobID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// membership keeps the caller's page order
	if len(members) != 3 || members[0] != 3 || members[1] != 1 || members[2] != 2 {
		t.Fatalf("unexpected members: %v", members)
	}

	job, err := svc.Job(ctx, jobID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if job.Width != 595 || job.Height != 842 {
		t.Fatalf("unexpected page size: %f x %f", job.Width, job.Height)
	}
}

func TestGetOrCreate_ExactSetDedup(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, []int64{1, 2, 3}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// same set, different order: same job
	second, err := svc.GetOrCreate(ctx, []int64{3, 2, 1}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Fatalf("identical member sets must share one job: %d != %d", first, second)
	}
}

func TestGetOrCreate_PartialOverlapIsNewJob(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, _ := svc.GetOrCreate(ctx, []int64{1, 2, 3}, 595, 842)
	subset, err := svc.GetOrCreate(ctx, []int64{1, 2}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if subset == first {
		t.Fatal("a strict subset must register its own job")
	}
	superset, err := svc.GetOrCreate(ctx, []int64{1, 2, 3, 4}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if superset == first || superset == subset {
		t.Fatal("a superset must register its own job")
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const n = 16
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobID, err := svc.GetOrCreate(ctx, []int64{10, 20, 30}, 595, 842)
			if err != nil {
				t.Errorf("concurrent GetOrCreate failed: %v", err)
				return
			}
			ids[i] = jobID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent callers diverged: %v", ids)
		}
	}
}

func TestAll_NewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, _ := svc.GetOrCreate(ctx, []int64{1}, 595, 842)
	second, _ := svc.GetOrCreate(ctx, []int64{2}, 595, 842)

	jobs, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != second || jobs[1].ID != first {
		t.Fatalf("jobs must list newest first: %d, %d", jobs[0].ID, jobs[1].ID)
	}
}

func TestClear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	jobID, _ := svc.GetOrCreate(ctx, []int64{1, 2}, 595, 842)
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	jobs, _ := svc.All(ctx)
	if len(jobs) != 0 {
		t.Fatalf("registry not empty after clear: %d jobs", len(jobs))
	}
	members, _ := svc.MemberItemIDs(ctx, jobID)
	if len(members) != 0 {
		t.Fatalf("members not cleared: %v", members)
	}

	// the same member set registers fresh after a clear
	newID, err := svc.GetOrCreate(ctx, []int64{1, 2}, 595, 842)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if newID == 0 {
		t.Fatal("expected a new job after clear")
	}
}
