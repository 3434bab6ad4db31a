package datarecording

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// clickhouseRecorder is a DataRecorder that bulk-inserts rows into a
// ClickHouse server through the native protocol. Column names and types are
// derived from the fields of each table's sample entry, so the recorder can
// serve any flat struct type.
type clickhouseRecorder struct {
	conn clickhouse.Conn
	mu   sync.Mutex

	tables     map[string]*tableBuffer
	batchSize  int
	entryCount int
}

// NewClickHouseRecorder creates a DataRecorder that writes into a ClickHouse
// database. A batchSize of 0 selects the default batch size.
func NewClickHouseRecorder(
	host string,
	port int,
	database string,
	username string,
	password string,
	batchSize int,
) DataRecorder {
	if batchSize == 0 {
		batchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		panic(fmt.Errorf("cannot connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("cannot ping ClickHouse: %w", err))
	}

	r := &clickhouseRecorder{
		conn:      conn,
		batchSize: batchSize,
		tables:    map[string]*tableBuffer{},
	}

	atexit.Register(r.Flush)

	return r
}

func clickhouseColumnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int8:
		return "Int8"
	case reflect.Int16:
		return "Int16"
	case reflect.Int32:
		return "Int32"
	case reflect.Int, reflect.Int64:
		return "Int64"
	case reflect.Uint8:
		return "UInt8"
	case reflect.Uint16:
		return "UInt16"
	case reflect.Uint32:
		return "UInt32"
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return "UInt64"
	case reflect.Float32:
		return "Float32"
	case reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("field kind %s is not supported by ClickHouse",
			kind))
	}
}

func (r *clickhouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowType := reflect.TypeOf(sampleEntry)
	if rowType.NumField() == 0 {
		panic("a table entry needs at least one field")
	}

	columns := make([]string, 0, rowType.NumField())
	for i := range rowType.NumField() {
		field := rowType.Field(i)
		columns = append(columns,
			field.Name+" "+clickhouseColumnType(field.Type.Kind()))
	}

	createTableSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY %s",
		tableName,
		strings.Join(columns, ",\n\t"),
		rowType.Field(0).Name,
	)

	err := r.conn.Exec(context.Background(), createTableSQL)
	if err != nil {
		panic(fmt.Errorf("cannot create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &tableBuffer{rowType: rowType}
}

func (r *clickhouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	buf, ok := r.tables[tableName]
	if !ok {
		r.mu.Unlock()
		panic(fmt.Sprintf("no table named %s", tableName))
	}

	buf.pending = append(buf.pending, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.mu.Unlock()
		r.Flush()

		return
	}

	r.mu.Unlock()
}

func (r *clickhouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Collect(maps.Keys(r.tables))
}

func (r *clickhouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for name, buf := range r.tables {
		if len(buf.pending) == 0 {
			continue
		}

		r.flushTable(ctx, name, buf)
	}

	r.entryCount = 0
}

func (r *clickhouseRecorder) flushTable(
	ctx context.Context,
	tableName string,
	buf *tableBuffer,
) {
	batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
	if err != nil {
		panic(fmt.Errorf("cannot prepare batch for %s: %w", tableName, err))
	}

	for _, entry := range buf.pending {
		if err := batch.Append(fieldValues(entry)...); err != nil {
			panic(fmt.Errorf("cannot append to batch for %s: %w",
				tableName, err))
		}
	}

	if err := batch.Send(); err != nil {
		panic(fmt.Errorf("cannot send batch for %s: %w", tableName, err))
	}

	buf.pending = nil
}

func (r *clickhouseRecorder) Close() {
	r.Flush()

	if err := r.conn.Close(); err != nil {
		panic(err)
	}
}
