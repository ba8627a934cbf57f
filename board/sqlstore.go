package board

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

const stmtGroup = "board"

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

func (s *SQLStore) HeaderByID(ctx context.Context, boardID int64) (*Header, error) {
	stmt, err := s.stmt("select_header")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItem[Header, *Header](ctx, s.DB, stmt, boardID)
}

func (s *SQLStore) Headers(ctx context.Context) ([]*Header, error) {
	stmt, err := s.stmt("select_headers")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItems[Header, *Header](ctx, s.DB, stmt)
}

func (s *SQLStore) InsertHeader(ctx context.Context, h *Header) error {
	stmt, err := s.stmt("insert_header")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, h.ID, h.Name, &h.Width, &h.Height)
	return err
}

func (s *SQLStore) UpdateHeader(ctx context.Context, h *Header) error {
	stmt, err := s.stmt("update_header")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, h.Name, &h.Width, &h.Height, h.ID)
	return err
}

func (s *SQLStore) SlotsByBoard(ctx context.Context, boardID int64) ([]*Slot, error) {
	stmt, err := s.stmt("select_slots_by_board")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItems[Slot, *Slot](ctx, s.DB, stmt, boardID)
}

func (s *SQLStore) SlotByJob(ctx context.Context, jobID int64) (*Slot, error) {
	stmt, err := s.stmt("select_slot_by_job")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItem[Slot, *Slot](ctx, s.DB, stmt, jobID)
}

func (s *SQLStore) SlotByBoardAndJob(ctx context.Context, boardID int64, jobID int64) (*Slot, error) {
	stmt, err := s.stmt("select_slot_by_board_and_job")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItem[Slot, *Slot](ctx, s.DB, stmt, boardID, jobID)
}

func (s *SQLStore) FirstEmptySlot(ctx context.Context, boardID int64) (*Slot, error) {
	stmt, err := s.stmt("select_first_empty_slot")
	if err != nil {
		return nil, err
	}
	return sqldb.QueryItem[Slot, *Slot](ctx, s.DB, stmt, boardID)
}

func (s *SQLStore) MaxLocation(ctx context.Context, boardID int64) (int64, error) {
	stmt, err := s.stmt("select_max_location")
	if err != nil {
		return 0, err
	}
	var maxLoc int64
	if err := s.DB.QueryRow(ctx, stmt, boardID).Scan(&maxLoc); err != nil {
		return 0, err
	}
	return maxLoc, nil
}

func (s *SQLStore) InsertSlot(ctx context.Context, slot *Slot) (int64, error) {
	stmt, err := s.stmt("insert_slot")
	if err != nil {
		return 0, err
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now()
	}
	if s.DB.PlaceholderPrefix() == '$' {
		var id int64
		err := s.DB.QueryRow(ctx, stmt+" RETURNING id", slot.BoardID, &slot.JobID, slot.Location, slot.CreatedAt).Scan(&id)
		return id, err
	}
	result, err := s.DB.Exec(ctx, stmt, slot.BoardID, &slot.JobID, slot.Location, slot.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLStore) ClearBoardSlots(ctx context.Context, boardID int64) error {
	stmt, err := s.stmt("clear_board_slots")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, boardID)
	return err
}

func (s *SQLStore) SetSlotJob(ctx context.Context, slotID int64, jobID int64) error {
	stmt, err := s.stmt("set_slot_job")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, jobID, slotID)
	return err
}

func (s *SQLStore) DeleteSlot(ctx context.Context, slotID int64) error {
	stmt, err := s.stmt("delete_slot")
	if err != nil {
		return err
	}
	result, err := s.DB.Exec(ctx, stmt, slotID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sqldb.ErrNoRows
	}
	return nil
}

func (s *SQLStore) MoveSlot(ctx context.Context, boardID int64, slotID int64, oldLoc int64, newLoc int64) error {
	if oldLoc == newLoc {
		return nil
	}
	shiftDown, err := s.stmt("shift_down_range")
	if err != nil {
		return err
	}
	shiftUp, err := s.stmt("shift_up_range")
	if err != nil {
		return err
	}
	setLocation, err := s.stmt("set_slot_location")
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

	if oldLoc < newLoc {
		// moving down the grid: the slots in between close up by one
		if _, err := tx.Exec(ctx, shiftDown, boardID, oldLoc, newLoc); err != nil {
			return err
		}
	} else {
		// moving up: the slots in between make room by one
		if _, err := tx.Exec(ctx, shiftUp, boardID, newLoc, oldLoc); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, setLocation, newLoc, slotID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
