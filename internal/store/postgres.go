package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"github.com/luckylabs-yuno/yuno/internal/model"
	"github.com/luckylabs-yuno/yuno/pkg/logger"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresStore persists leads in Postgres through bun.
type PostgresStore struct {
	db     *bun.DB
	logger *logger.Logger
}

// NewPostgresStore connects to dsn, verifies the connection and creates the
// tables when they do not exist.
func NewPostgresStore(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	s := &PostgresStore{db: db, logger: log.Named("store")}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Info("postgres store ready")
	return s, nil
}

// NewPostgresStoreFromDB wraps an existing bun handle without migrating.
func NewPostgresStoreFromDB(db *bun.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log.Named("store")}
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	models := []any{(*model.Enquiry)(nil), (*model.PilotLead)(nil)}
	for _, m := range models {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	indexes := []struct {
		model any
		name  string
	}{
		{(*model.Enquiry)(nil), "enquiries_created_at_idx"},
		{(*model.PilotLead)(nil), "yuno_leads_created_at_idx"},
	}
	for _, idx := range indexes {
		_, err := s.db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column("created_at").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (s *PostgresStore) InsertEnquiry(ctx context.Context, e *model.Enquiry) error {
	if _, err := s.db.NewInsert().Model(e).Exec(ctx); err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertPilotLead(ctx context.Context, l *model.PilotLead) error {
	if _, err := s.db.NewInsert().Model(l).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert pilot lead: %w", err)
	}
	return nil
}

func (s *PostgresStore) PilotEmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*model.PilotLead)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check pilot email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ListEnquiries(ctx context.Context, page Page) ([]model.Enquiry, error) {
	page = page.Normalize()
	out := make([]model.Enquiry, 0)
	err := s.db.NewSelect().
		Model(&out).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListPilotLeads(ctx context.Context, page Page) ([]model.PilotLead, error) {
	page = page.Normalize()
	out := make([]model.PilotLead, 0)
	err := s.db.NewSelect().
		Model(&out).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pilot leads: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close database", zap.Error(err))
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
