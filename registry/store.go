package registry

import "context"

// Store persists print jobs and their page membership.
type Store interface {
	JobByID(ctx context.Context, jobID int64) (*PrintJob, error)
	// Jobs lists every job, newest first.
	Jobs(ctx context.Context) ([]*PrintJob, error)
	// CandidateJobIDs returns the ids of jobs sharing at least one
	// member with the given items.
	CandidateJobIDs(ctx context.Context, itemIDs []int64) ([]int64, error)
	// MemberItemIDs returns a job's member item ids in insertion order.
	MemberItemIDs(ctx context.Context, jobID int64) ([]int64, error)
	// CreateJobWithMembers registers a job and its members atomically.
	CreateJobWithMembers(ctx context.Context, width float64, height float64, itemIDs []int64) (int64, error)
	// DeleteAll wipes the whole registry, members first.
	DeleteAll(ctx context.Context) error
}
