package registry

import (
	"context"
	"embed"
	"fmt"
	"log"
	"time"

	"github.com/zeptools/tablet-core/db/sqldb"
)

//go:embed sql
var sqlFS embed.FS

const stmtGroup = "registry"

func init() {
	sqldb.RegisterGroup(sqlFS, stmtGroup)
}

// EnsureSQLImport - import hook for conf.Core.PrepareSQLDatabases
func EnsureSQLImport() {}

type SQLStore struct {
	DB    sqldb.Client
	Stmts *sqldb.RawSQLStore
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) stmt(name string) (string, error) {
	key := sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: name}.String()
	raw, ok := s.Stmts.Get(key)
	if !ok {
		return "", fmt.Errorf("missing sql stmt: %s", key)
	}
	return raw, nil
}

func (s *SQLStore) JobByID(ctx context.Context, jobID int64) (*PrintJob, error) {
	stmt, err := s.stmt("select_job")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItem[PrintJob, *PrintJob](ctx, s.DB, stmt, jobID)
}

func (s *SQLStore) Jobs(ctx context.Context) ([]*PrintJob, error) {
	stmt, err := s.stmt("select_jobs")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItems[PrintJob, *PrintJob](ctx, s.DB, stmt)
}

func (s *SQLStore) CandidateJobIDs(ctx context.Context, itemIDs []int64) ([]int64, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	raw, err := s.stmt("select_candidate_job_ids")
	if err != nil {
		return nil, err
	}
	stmt, err := sqldb.ExpandDynamicPlaceholders(raw, s.DB.PlaceholderPrefix(), []int{len(itemIDs)}, 1)
	if err != nil {
		return nil, err
	}
	return s.queryIDs(ctx, stmt, int64sAsAny(itemIDs)...)
}

func (s *SQLStore) MemberItemIDs(ctx context.Context, jobID int64) ([]int64, error) {
	stmt, err := s.stmt("select_member_item_ids")
	if err != nil {
		return nil, err
	}
	return s.queryIDs(ctx, stmt, jobID)
}

func (s *SQLStore) queryIDs(ctx context.Context, stmt string, args ...any) ([]int64, error) {
	rows, err := s.DB.QueryRows(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("rows.Close() failed: %v", err)
		}
	}()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) CreateJobWithMembers(ctx context.Context, width float64, height float64, itemIDs []int64) (int64, error) {
	insertJob, err := s.stmt("insert_job")
	if err != nil {
		return 0, err
	}
	insertMember, err := s.stmt("insert_member")
	if err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			log.Printf("[WARN] tx.Rollback() failed: %v\n", err)
		}
	}()

	jobID, err := s.insertReturningID(ctx, tx, insertJob, width, height, time.Now())
	if err != nil {
		return 0, err
	}
	for _, itemID := range itemIDs {
		if _, err := tx.Exec(ctx, insertMember, jobID, itemID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return jobID, nil
}

// insertReturningID bridges the dialect gap: pgsql yields the new id
// through RETURNING, mysql through LastInsertId.
func (s *SQLStore) insertReturningID(ctx context.Context, tx sqldb.Tx, stmt string, args ...any) (int64, error) {
	if s.DB.PlaceholderPrefix() == '$' {
		var id int64
		err := tx.QueryRow(ctx, stmt+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	result, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLStore) DeleteAll(ctx context.Context) error {
	deleteMembers, err := s.stmt("delete_all_members")
	if err != nil {
		return err
	}
	deleteJobs, err := s.stmt("delete_all_jobs")
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			log.Printf("[WARN] tx.Rollback() failed: %v\n", err)
		}
	}()

	if _, err := tx.Exec(ctx, deleteMembers); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteJobs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func int64sAsAny(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
