// Package datarecording provides writers and readers that move simulation
// results in and out of databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table with the given name. The columns are
	// derived from the fields of the sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry of the sample type into a table that
	// already exists.
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing the names of all tables.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes the remaining entries and releases the underlying
	// database connection.
	Close()
}

// New creates a DataRecorder that writes into a SQLite database. The path is
// the filename without the ".sqlite3" extension. If path is empty, a unique
// filename is generated.
func New(path string) DataRecorder {
	r := &sqliteRecorder{
		dbName:    path,
		batchSize: 100000,
		tables:    map[string]*tableBuffer{},
	}
	r.openDatabase()

	atexit.Register(r.Flush)

	return r
}

// NewWithDB creates a DataRecorder that records through an open connection.
func NewWithDB(db *sql.DB) DataRecorder {
	r := &sqliteRecorder{
		DB:        db,
		batchSize: 100000,
		tables:    map[string]*tableBuffer{},
	}

	atexit.Register(r.Flush)

	return r
}

type tableBuffer struct {
	rowType reflect.Type
	pending []any
}

// sqliteRecorder buffers entries in memory and flushes them into a SQLite
// database in batches.
type sqliteRecorder struct {
	*sql.DB

	dbName     string
	tables     map[string]*tableBuffer
	batchSize  int
	entryCount int
}

func (r *sqliteRecorder) openDatabase() {
	if r.dbName == "" {
		r.dbName = "washsim_recording_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("recording database %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr,
		"Simulation data will be recorded in %s\n", filename)

	r.DB = db
}

// isScalarKind reports whether a field of this kind can become a column.
func isScalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Array, reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice, reflect.Struct:
		return false
	default:
		return true
	}
}

func entryFieldsMustBeScalar(sampleEntry any) {
	structType := reflect.TypeOf(sampleEntry)

	for i := range structType.NumField() {
		field := structType.Field(i)
		if !isScalarKind(field.Type.Kind()) {
			panic(fmt.Sprintf(
				"field %s: tables can only store scalar fields",
				field.Name))
		}
	}
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	entryFieldsMustBeScalar(sampleEntry)

	columns := strings.Join(structs.Names(sampleEntry), ", \n\t")
	r.mustExec("CREATE TABLE " + tableName + " (\n\t" + columns + "\n);")

	r.tables[tableName] = &tableBuffer{rowType: reflect.TypeOf(sampleEntry)}
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) {
	buf, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("no table named %s", tableName))
	}

	buf.pending = append(buf.pending, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

func (r *sqliteRecorder) ListTables() []string {
	return slices.Collect(maps.Keys(r.tables))
}

func (r *sqliteRecorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	r.mustExec("BEGIN TRANSACTION")
	defer r.mustExec("COMMIT TRANSACTION")

	for name, buf := range r.tables {
		if len(buf.pending) == 0 {
			continue
		}

		stmt := r.prepareInsert(name, buf.rowType.NumField())
		for _, entry := range buf.pending {
			if _, err := stmt.Exec(fieldValues(entry)...); err != nil {
				panic(err)
			}
		}

		buf.pending = nil
		stmt.Close()
	}

	r.entryCount = 0
}

func fieldValues(entry any) []any {
	value := reflect.ValueOf(entry)

	values := make([]any, value.NumField())
	for i := range values {
		values[i] = value.Field(i).Interface()
	}

	return values
}

func (r *sqliteRecorder) Close() {
	r.Flush()

	if err := r.DB.Close(); err != nil {
		panic(err)
	}
}

func (r *sqliteRecorder) mustExec(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}

func (r *sqliteRecorder) prepareInsert(table string, numFields int) *sql.Stmt {
	placeholders := make([]string, numFields)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := r.Prepare(
		"INSERT INTO " + table +
			" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		panic(err)
	}

	return stmt
}
