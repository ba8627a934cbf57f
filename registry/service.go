package registry

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zeptools/tablet-core/locks/keyonlylocks"
)

const lockRetryInterval = 10 * time.Millisecond

// Service - print job registration with page-set dedup. Two pages with
// the same member item set share one job; membership comparison is
// exact set equality, so partial overlaps register separately.
type Service struct {
	Store Store
	Locks *sync.Map
}

func NewService(store Store, locks *sync.Map) *Service {
	return &Service{Store: store, Locks: locks}
}

// GetOrCreate returns the job id owning exactly the given member set,
// registering a new job when none does. Concurrent calls for the same
// set serialize on the canonical set key.
func (s *Service) GetOrCreate(ctx context.Context, memberItemIDs []int64, width float64, height float64) (int64, error) {
	lockKey := canonicalSetKey(memberItemIDs)
	for {
		acquired, ok := keyonlylocks.AcquireLocks(s.Locks, []string{lockKey})
		if ok {
			defer keyonlylocks.ReleaseLocks(s.Locks, acquired)
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	if jobID, found, err := s.findExisting(ctx, memberItemIDs); err != nil {
		return 0, err
	} else if found {
		return jobID, nil
	}
	jobID, createErr := s.Store.CreateJobWithMembers(ctx, width, height, memberItemIDs)
	if createErr != nil {
		// a writer outside this process may have won the race
		if existingID, found, err := s.findExisting(ctx, memberItemIDs); err == nil && found {
			return existingID, nil
		}
		return 0, createErr
	}
	return jobID, nil
}

func (s *Service) findExisting(ctx context.Context, memberItemIDs []int64) (int64, bool, error) {
	candidates, err := s.Store.CandidateJobIDs(ctx, memberItemIDs)
	if err != nil {
		return 0, false, err
	}
	wanted := int64Set(memberItemIDs)
	for _, jobID := range candidates {
		existing, err := s.Store.MemberItemIDs(ctx, jobID)
		if err != nil {
			return 0, false, err
		}
		if setsEqual(wanted, int64Set(existing)) {
			return jobID, true, nil
		}
	}
	return 0, false, nil
}

// Job loads one registered job.
func (s *Service) Job(ctx context.Context, jobID int64) (*PrintJob, error) {
	return s.Store.JobByID(ctx, jobID)
}

// All lists every registered job, newest first.
func (s *Service) All(ctx context.Context) ([]*PrintJob, error) {
	return s.Store.Jobs(ctx)
}

// MemberItemIDs returns a job's member item ids.
func (s *Service) MemberItemIDs(ctx context.Context, jobID int64) ([]int64, error) {
	return s.Store.MemberItemIDs(ctx, jobID)
}

// Clear wipes the registry.
func (s *Service) Clear(ctx context.Context) error {
	return s.Store.DeleteAll(ctx)
}

func canonicalSetKey(itemIDs []int64) string {
	sorted := make([]int64, len(itemIDs))
	copy(sorted, itemIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "printjob:members:" + strings.Join(parts, ",")
}

func int64Set(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setsEqual(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
