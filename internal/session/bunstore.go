package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"pdfchat/internal/models"
)

type sessionRow struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	Files     []string  `bun:"files,array"`
	Processed bool      `bun:"processed,notnull,default:false"`
	IndexPath string    `bun:"index_path"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// BunStore is the durable session table backed by Postgres.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Init creates the sessions table if it does not exist yet.
func (b *BunStore) Init(ctx context.Context) error {
	_, err := b.db.NewCreateTable().Model((*sessionRow)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (b *BunStore) Get(ctx context.Context, id string) (*models.Session, error) {
	row := new(sessionRow)
	err := b.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return &models.Session{
		ID:        row.ID,
		Files:     row.Files,
		Processed: row.Processed,
		IndexPath: row.IndexPath,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (b *BunStore) Put(ctx context.Context, s *models.Session) error {
	row := &sessionRow{
		ID:        s.ID,
		Files:     s.Files,
		Processed: s.Processed,
		IndexPath: s.IndexPath,
		CreatedAt: s.CreatedAt,
	}
	_, err := b.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("files = EXCLUDED.files").
		Set("processed = EXCLUDED.processed").
		Set("index_path = EXCLUDED.index_path").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storing session %s: %w", s.ID, err)
	}
	return nil
}

func (b *BunStore) Delete(ctx context.Context, id string) error {
	res, err := b.db.NewDelete().Model((*sessionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}
