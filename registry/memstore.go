package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zeptools/tablet-core/db/sqldb"
)

// MemStore - in-memory Store for tests and single-process setups.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	jobs    map[int64]*PrintJob
	members map[int64][]int64 // jobID -> member item ids, insertion order
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:  1,
		jobs:    make(map[int64]*PrintJob),
		members: make(map[int64][]int64),
	}
}

func (s *MemStore) JobByID(_ context.Context, jobID int64) (*PrintJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, sqldb.ErrNoRows
	}
	cp := *job
	return &cp, nil
}

func (s *MemStore) Jobs(_ context.Context) ([]*PrintJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*PrintJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		cp := *job
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID > jobs[j].ID
	})
	return jobs, nil
}

func (s *MemStore) CandidateJobIDs(_ context.Context, itemIDs []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var jobIDs []int64
	for jobID, memberIDs := range s.members {
		for _, itemID := range memberIDs {
			if _, ok := wanted[itemID]; ok {
				jobIDs = append(jobIDs, jobID)
				break
			}
		}
	}
	sort.Slice(jobIDs, func(i, j int) bool { return jobIDs[i] < jobIDs[j] })
	return jobIDs, nil
}

func (s *MemStore) MemberItemIDs(_ context.Context, jobID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.members[jobID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *MemStore) CreateJobWithMembers(_ context.Context, width float64, height float64, itemIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobID := s.nextID
	s.nextID++
	s.jobs[jobID] = &PrintJob{
		ID:        jobID,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}
	memberIDs := make([]int64, len(itemIDs))
	copy(memberIDs, itemIDs)
	s.members[jobID] = memberIDs
	return jobID, nil
}

func (s *MemStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[int64]*PrintJob)
	s.members = make(map[int64][]int64)
	return nil
}
