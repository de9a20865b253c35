// Package ioquery implements parameterized reads against the species
// dictionary. All access from interactive callers is expected to go
// through the operation coordinator; this package only talks SQL.
package ioquery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/species"
)

// UserLogTable is the externally-owned table recording the user's
// personal observations, keyed by scientific name. This subsystem
// probes its existence and key column only; it never creates or
// writes to it.
const (
	UserLogTable   = "user_log"
	userLogKeyCol  = "scientific_name"
	defaultPageLen = 20
)

// querier implements birddex.Querier.
type querier struct {
	operator db.Operator
}

// New creates a query service over the record store.
func New(op db.Operator) birddex.Querier {
	return &querier{operator: op}
}

// loggedExpr returns the SQL expression computing the "logged" flag.
// When the user log table is absent the flag is constantly false;
// its existence is entirely up to the external owner.
func (q *querier) loggedExpr(ctx context.Context) (string, error) {
	exists, err := q.operator.TableExists(ctx, UserLogTable)
	if err != nil {
		return "", err
	}
	if !exists {
		return "0", nil
	}
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s ul WHERE ul.%s = species.scientific_name)",
		UserLogTable, userLogKeyCol,
	), nil
}

// predicate builds the shared WHERE clause: an optional
// case-insensitive substring match on the primary and scientific
// names ANDed with an optional category equality.
func predicate(filter, category string) (string, []any) {
	var clauses []string
	var args []any

	filter = strings.TrimSpace(filter)
	if filter != "" {
		clauses = append(clauses,
			"(primary_name LIKE '%'||?||'%' OR scientific_name LIKE '%'||?||'%')")
		args = append(args, filter, filter)
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && category != species.CategoryAll {
		clauses = append(clauses, "category = ?")
		args = append(args, category)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// PagedList returns one page of records. Records present in the user
// log order first, then the requested key and direction apply.
func (q *querier) PagedList(
	ctx context.Context,
	query birddex.ListQuery,
) ([]species.Record, error) {
	handle := q.operator.DB()
	if handle == nil {
		return nil, NotConnectedError()
	}

	sortCol, ok := species.SortColumn(query.SortKey)
	if !ok {
		return nil, InvalidSortKeyError(query.SortKey)
	}
	direction := "DESC"
	if query.Ascending {
		direction = "ASC"
	}

	logged, err := q.loggedExpr(ctx)
	if err != nil {
		return nil, err
	}

	where, args := predicate(query.Filter, query.Category)

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageLen
	}
	pageNumber := query.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}

	stmt := fmt.Sprintf(`
		SELECT %s, %s AS logged
		FROM species
		%s
		ORDER BY logged DESC, %s COLLATE NOCASE %s
		LIMIT ? OFFSET ?`,
		selectColumns(), logged, where, sortCol, direction,
	)
	args = append(args, pageSize, (pageNumber-1)*pageSize)

	rows, err := handle.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, QueryError("paged list", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RowCount counts records matching the same predicate as PagedList.
func (q *querier) RowCount(
	ctx context.Context,
	filter, category string,
) (int, error) {
	handle := q.operator.DB()
	if handle == nil {
		return 0, NotConnectedError()
	}

	where, args := predicate(filter, category)
	stmt := "SELECT COUNT(*) FROM species " + where

	var count int
	err := handle.QueryRowContext(ctx, stmt, args...).Scan(&count)
	if err != nil {
		return 0, QueryError("row count", err)
	}
	return count, nil
}

// SearchByName matches a term case-insensitively across the primary
// and scientific names plus every localized name column, logged
// records first, capped at limit.
func (q *querier) SearchByName(
	ctx context.Context,
	term string,
	limit int,
	category string,
) ([]species.Record, error) {
	handle := q.operator.DB()
	if handle == nil {
		return nil, NotConnectedError()
	}

	if limit <= 0 {
		limit = defaultPageLen
	}

	logged, err := q.loggedExpr(ctx)
	if err != nil {
		return nil, err
	}

	nameCols := append(
		[]string{"primary_name", "scientific_name"},
		species.LocalizedColumns()...,
	)
	var matches []string
	var args []any
	for _, col := range nameCols {
		matches = append(matches, col+" LIKE '%'||?||'%'")
		args = append(args, term)
	}
	where := "WHERE (" + strings.Join(matches, " OR ") + ")"

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && category != species.CategoryAll {
		where += " AND category = ?"
		args = append(args, category)
	}

	stmt := fmt.Sprintf(`
		SELECT %s, %s AS logged
		FROM species
		%s
		ORDER BY logged DESC, primary_name COLLATE NOCASE ASC
		LIMIT ?`,
		selectColumns(), logged, where,
	)
	args = append(args, limit)

	rows, err := handle.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, QueryError("search by name", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByKey fetches a single record by species code. Absence returns
// (nil, nil), not an error.
func (q *querier) GetByKey(
	ctx context.Context,
	speciesCode string,
) (*species.Record, error) {
	handle := q.operator.DB()
	if handle == nil {
		return nil, NotConnectedError()
	}

	logged, err := q.loggedExpr(ctx)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(`
		SELECT %s, %s AS logged
		FROM species
		WHERE species_code = ?`,
		selectColumns(), logged,
	)

	row := handle.QueryRowContext(ctx, stmt, speciesCode)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, RecordScanError(err)
	}
	return rec, nil
}

// AvailableCategories returns distinct non-empty categories with
// record counts, descending by count.
func (q *querier) AvailableCategories(
	ctx context.Context,
) ([]species.CategoryCount, error) {
	handle := q.operator.DB()
	if handle == nil {
		return nil, NotConnectedError()
	}

	stmt := `
		SELECT category, COUNT(*) AS cnt
		FROM species
		WHERE category != ''
		GROUP BY category
		ORDER BY cnt DESC`

	rows, err := handle.QueryContext(ctx, stmt)
	if err != nil {
		return nil, QueryError("available categories", err)
	}
	defer rows.Close()

	var res []species.CategoryCount
	for rows.Next() {
		var cc species.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, RecordScanError(err)
		}
		res = append(res, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("available categories", err)
	}
	return res, nil
}

// selectColumns returns the persisted record columns for SELECT
// statements, in the scan order used by scanRecord.
func selectColumns() string {
	return strings.Join(species.Record{}.Columns(), ", ")
}

// scanRecord scans one row in Columns order plus the logged flag.
func scanRecord(scan func(...any) error) (*species.Record, error) {
	var rec species.Record
	err := scan(
		&rec.SpeciesCode, &rec.PrimaryName, &rec.ScientificName,
		&rec.Category, &rec.Family, &rec.TaxonOrder,
		&rec.RangeDescription, &rec.Extinct, &rec.ExtinctYear,
		&rec.NameDE, &rec.NameES, &rec.NameFR, &rec.NameNL, &rec.NamePT,
		&rec.DatasetVersion, &rec.IngestedAt, &rec.Logged,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]species.Record, error) {
	var res []species.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, RecordScanError(err)
		}
		res = append(res, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("row iteration", err)
	}
	return res, nil
}
