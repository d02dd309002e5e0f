package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/naruebet/voiceline/agent/contract"
)

type PgConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// finalizedRecord is the archive row. Payload keeps the full record as
// jsonb so each persona can snapshot its own shape.
type finalizedRecord struct {
	bun.BaseModel `bun:"table:finalized_records"`

	ID         int64           `bun:"id,pk,autoincrement"`
	Collection string          `bun:"collection,notnull"`
	RecordID   string          `bun:"record_id"`
	Payload    json.RawMessage `bun:"payload,type:jsonb,notnull"`
	CreatedAt  time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PgSink archives finalized records in Postgres. It satisfies the same
// Sink contract as FileSink; Append and Write differ only in whether the
// record carries its own id.
type PgSink struct {
	db *bun.DB
}

var _ contractx.Sink = (*PgSink)(nil)

func NewPgSink(cfg PgConfig) (*PgSink, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &PgSink{db: db}, nil
}

// EnsureSchema creates the archive table when it does not exist.
func (s *PgSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*finalizedRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: create archive table: %v", contractx.ErrPersistenceSink, err)
	}
	return nil
}

func (s *PgSink) Write(ctx context.Context, collection, id string, record any) error {
	return s.insert(ctx, collection, id, record)
}

func (s *PgSink) Append(ctx context.Context, collection string, record any) error {
	return s.insert(ctx, collection, "", record)
}

func (s *PgSink) insert(ctx context.Context, collection, id string, record any) error {
	if strings.TrimSpace(collection) == "" {
		return ErrEmptyCollection
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", contractx.ErrPersistenceSink, err)
	}

	row := &finalizedRecord{
		Collection: collection,
		RecordID:   id,
		Payload:    payload,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert %s record: %v", contractx.ErrPersistenceSink, collection, err)
	}

	return nil
}

func (s *PgSink) Close() error {
	return s.db.Close()
}
