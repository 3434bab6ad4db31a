package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// QueryParams narrows and pages a table query.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword, such as
	// "EndTime > ? AND Kind = ?".
	Where string

	// Args fills the placeholders in Where.
	Args []any

	// Limit caps the number of records returned. Zero means no cap.
	Limit int

	// Offset is the number of records to skip.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords, such as
	// "StartTime DESC".
	OrderBy string
}

// DataReader reads back data written by a DataRecorder.
type DataReader interface {
	// MapTable associates a table with the struct type its rows scan into.
	// A table must be mapped before it can be queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns all the mapped tables.
	ListTables() []string

	// Query returns one page of a table's rows as pointers to the mapped
	// struct type, along with the total number of matching rows.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

// sqliteReader reads data from a SQLite database.
type sqliteReader struct {
	*sql.DB

	tableTypes map[string]reflect.Type
}

// NewReader opens a SQLite database file for reading.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader over an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:         db,
		tableTypes: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.tableTypes[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	return slices.Collect(maps.Keys(r.tableTypes))
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	rowType, ok := r.tableTypes[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	totalCount, err := r.countMatches(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.QueryContext(
		ctx, selectSQL(tableName, params), params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanRows(rows, rowType)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func selectSQL(tableName string, params QueryParams) string {
	query := "SELECT * FROM " + tableName

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	return query
}

func (r *sqliteReader) countMatches(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	query := "SELECT COUNT(*) FROM " + tableName
	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	var count int
	err := r.QueryRowContext(ctx, query, params.Args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// scanRows scans every row into a new value of rowType, matching columns to
// struct fields by name. Columns without a matching field are dropped.
func scanRows(rows *sql.Rows, rowType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndex := make(map[string]int, rowType.NumField())
	for i := range rowType.NumField() {
		fieldIndex[rowType.Field(i).Name] = i
	}

	var results []any

	for rows.Next() {
		rowPtr := reflect.New(rowType)
		row := rowPtr.Elem()

		targets := make([]any, len(columns))
		for i, column := range columns {
			if f, ok := fieldIndex[column]; ok {
				targets[i] = row.Field(f).Addr().Interface()
				continue
			}

			var dropped any
			targets[i] = &dropped
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, rowPtr.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
