package orders

import (
	"context"
	"embed"
	"fmt"

	"github.com/zeptools/tablet-core/db/sqldb"
	"github.com/zeptools/tablet-core/orm"
)

//go:embed sql
var sqlFS embed.FS

const stmtGroup = "orders"

func init() {
	sqldb.RegisterGroup(sqlFS, stmtGroup)
}

// EnsureSQLImport - import hook for conf.Core.PrepareSQLDatabases
func EnsureSQLImport() {}

// Store loads order trees and applies policy-guarded writes.
type Store struct {
	DB     sqldb.Client
	Stmts  *sqldb.RawSQLStore
	Policy *Policy
}

func (s *Store) stmt(name string) (string, error) {
	key := sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: name}.String()
	raw, ok := s.Stmts.Get(key)
	if !ok {
		return "", fmt.Errorf("missing sql stmt: %s", key)
	}
	return raw, nil
}

func (s *Store) expandedStmt(name string, counts []int) (string, error) {
	raw, err := s.stmt(name)
	if err != nil {
		return "", err
	}
	return sqldb.ExpandDynamicPlaceholders(raw, s.DB.PlaceholderPrefix(), counts, 1)
}

func int64sAsAny(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// OrdersByIDs loads plain orders, without their item trees.
func (s *Store) OrdersByIDs(ctx context.Context, ids []int64) (*orm.Collection[*Order, int64], error) {
	if len(ids) == 0 {
		return orm.NewEmptyOrderedCollection[*Order, int64](), nil
	}
	stmt, err := s.expandedStmt("select_orders", []int{len(ids)})
	if err != nil {
		return nil, err
	}
	return sqldb.QueryCollection[Order, *Order, int64](ctx, s.DB, stmt, int64sAsAny(ids)...)
}

// ItemsByIDs loads order items with their form field values attached,
// items and values both in ascending id order.
func (s *Store) ItemsByIDs(ctx context.Context, itemIDs []int64) (*orm.Collection[*OrderItem, int64], error) {
	if len(itemIDs) == 0 {
		return orm.NewEmptyOrderedCollection[*OrderItem, int64](), nil
	}
	stmt, err := s.expandedStmt("select_items_by_ids", []int{len(itemIDs)})
	if err != nil {
		return nil, err
	}
	items, err := sqldb.QueryCollection[OrderItem, *OrderItem, int64](ctx, s.DB, stmt, int64sAsAny(itemIDs)...)
	if err != nil {
		return nil, err
	}
	if err = s.attachFieldValues(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemsByOrderIDs loads every item of the given orders, with field values.
func (s *Store) ItemsByOrderIDs(ctx context.Context, orderIDs []int64) (*orm.Collection[*OrderItem, int64], error) {
	if len(orderIDs) == 0 {
		return orm.NewEmptyOrderedCollection[*OrderItem, int64](), nil
	}
	stmt, err := s.expandedStmt("select_items_by_order_ids", []int{len(orderIDs)})
	if err != nil {
		return nil, err
	}
	items, err := sqldb.QueryCollection[OrderItem, *OrderItem, int64](ctx, s.DB, stmt, int64sAsAny(orderIDs)...)
	if err != nil {
		return nil, err
	}
	if err = s.attachFieldValues(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) attachFieldValues(ctx context.Context, items *orm.Collection[*OrderItem, int64]) error {
	if items.Len() == 0 {
		return nil
	}
	stmt, err := s.expandedStmt("select_field_values_for_items", []int{items.Len()})
	if err != nil {
		return err
	}
	values, err := sqldb.QueryCollection[FieldValue, *FieldValue, int64](ctx, s.DB, stmt, items.IDsAsAny()...)
	if err != nil {
		return err
	}
	orm.LinkHasMany[*OrderItem, int64, *FieldValue, int64](
		items,
		values,
		func(v *FieldValue) int64 { return v.ItemID },
		func(i *OrderItem) **orm.Collection[*FieldValue, int64] { return &i.FieldValues },
	)
	return nil
}

// PrintDataByItemIDs - folded print rows for the given items, id order.
func (s *Store) PrintDataByItemIDs(ctx context.Context, itemIDs []int64) ([]*ItemPrintData, error) {
	items, err := s.ItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	return orm.EnumerateToSlice(items, func(i *OrderItem) *ItemPrintData { return i.PrintData() }), nil
}

// PrintDataByOrderIDs - folded print rows for every item of the given
// orders.
func (s *Store) PrintDataByOrderIDs(ctx context.Context, orderIDs []int64) ([]*ItemPrintData, error) {
	items, err := s.ItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	return orm.EnumerateToSlice(items, func(i *OrderItem) *ItemPrintData { return i.PrintData() }), nil
}

func (s *Store) orderVersion(ctx context.Context, orderID int64) (string, error) {
	stmt, err := s.stmt("select_order_version")
	if err != nil {
		return "", err
	}
	var version string
	if err = s.DB.QueryRow(ctx, stmt, orderID).Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

// UpdatePhone - the one edit read-only orders still accept.
func (s *Store) UpdatePhone(ctx context.Context, orderID int64, phone string) error {
	version, err := s.orderVersion(ctx, orderID)
	if err != nil {
		return err
	}
	if err = s.Policy.CanMutate(version, Change{Kind: ChangeOrderUpdate, ChangedFields: []string{"phone"}}); err != nil {
		return err
	}
	stmt, err := s.stmt("update_order_phone")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, phone, orderID)
	return err
}

// DeleteOrder removes an order tree (children cascade in the schema).
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	version, err := s.orderVersion(ctx, orderID)
	if err != nil {
		return err
	}
	if err = s.Policy.CanMutate(version, Change{Kind: ChangeOrderDelete}); err != nil {
		return err
	}
	stmt, err := s.stmt("delete_order")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, stmt, orderID)
	return err
}

// ReplaceFieldValue overwrites one form field value. The parent order's
// version is resolved through the item join and checked first.
func (s *Store) ReplaceFieldValue(ctx context.Context, fieldValueID int64, newValue string) error {
	stmt, err := s.stmt("select_version_by_field_value")
	if err != nil {
		return err
	}
	var version string
	if err = s.DB.QueryRow(ctx, stmt, fieldValueID).Scan(&version); err != nil {
		return err
	}
	if err = s.Policy.CanMutate(version, Change{Kind: ChangeFormDataWrite}); err != nil {
		return err
	}
	updateStmt, err := s.stmt("update_field_value")
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, updateStmt, newValue, fieldValueID)
	return err
}

// DistinctVersions lists every order version present, for the version picker.
func (s *Store) DistinctVersions(ctx context.Context) ([]string, error) {
	stmt, err := s.stmt("select_distinct_versions")
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryRows(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var versions []string
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
