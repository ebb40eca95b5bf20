package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

const uniqueViolation = "23505"

const (
	constraintEmail = "participants_email_key"
	constraintPhone = "participants_phone_key"
	constraintCode  = "participants_code_key"
)

const participantColumns = `id, full_name, email, phone, code, redeemed, redeemed_at, created_at, notified_at, notify_attempts, notify_claimed_at`

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type participantRepository struct {
	storage *Storage
}

type notificationRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// HealthCheck pings the database.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Participants returns the participant repository.
func (s *Storage) Participants() repository.ParticipantRepository {
	return &participantRepository{storage: s}
}

// Notifications returns the gift link delivery repository.
func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

// WithinTransaction runs fn in a transaction, committing on success.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Error("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS participants (
            id UUID PRIMARY KEY,
            full_name TEXT NOT NULL,
            email TEXT,
            phone TEXT,
            code TEXT NOT NULL,
            redeemed BOOLEAN NOT NULL DEFAULT FALSE,
            redeemed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            notified_at TIMESTAMPTZ,
            notify_attempts INTEGER NOT NULL DEFAULT 0,
            notify_claimed_at TIMESTAMPTZ,
            CONSTRAINT participants_email_key UNIQUE (email),
            CONSTRAINT participants_phone_key UNIQUE (phone),
            CONSTRAINT participants_code_key UNIQUE (code),
            CONSTRAINT participants_contact_check CHECK (email IS NOT NULL OR phone IS NOT NULL)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_participants_pending ON participants(created_at) WHERE notified_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func scanParticipant(row pgx.Row) (*model.Participant, error) {
	var p model.Participant
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Code, &p.Redeemed, &p.RedeemedAt,
		&p.CreatedAt, &p.NotifiedAt, &p.NotifyAttempts, &p.NotifyClaimedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintEmail:
		return domainErrors.ErrEmailTaken
	case constraintPhone:
		return domainErrors.ErrPhoneTaken
	case constraintCode:
		return domainErrors.ErrCodeTaken
	default:
		return err
	}
}

// --- ParticipantRepository implementation ---

func (r *participantRepository) Create(ctx context.Context, p *model.Participant) error {
	const query = `INSERT INTO participants (id, full_name, email, phone, code, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.storage.pool.Exec(ctx, query, p.ID, p.FullName, p.Email, p.Phone, p.Code, p.CreatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (r *participantRepository) GetByCode(ctx context.Context, code string) (*model.Participant, error) {
	return r.getBy(ctx, "code", code)
}

func (r *participantRepository) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	return r.getBy(ctx, "email", email)
}

func (r *participantRepository) GetByPhone(ctx context.Context, phone string) (*model.Participant, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *participantRepository) getBy(ctx context.Context, column, value string) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE ` + column + `=$1`
	p, err := scanParticipant(r.storage.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("select participant by %s: %w", column, err)
	}
	return p, nil
}

func (r *participantRepository) MarkRedeemed(ctx context.Context, code string, at time.Time) (*model.Participant, error) {
	const query = `UPDATE participants SET redeemed=TRUE, redeemed_at=$2
                   WHERE code=$1 AND redeemed=FALSE
                   RETURNING ` + participantColumns
	p, err := scanParticipant(r.storage.pool.QueryRow(ctx, query, code, at))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("redeem participant: %w", err)
	}

	if _, err := r.GetByCode(ctx, code); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrAlreadyRedeemed
}

// --- NotificationRepository implementation ---

func (r *notificationRepository) ClaimPending(ctx context.Context, opts repository.ClaimOptions) ([]model.Participant, error) {
	const selectQuery = `SELECT ` + participantColumns + ` FROM participants
                         WHERE notified_at IS NULL
                           AND notify_attempts < $1
                           AND (notify_claimed_at IS NULL OR notify_claimed_at < $2)
                         ORDER BY created_at
                         LIMIT $3
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE participants SET notify_claimed_at=$1, notify_attempts=notify_attempts+1 WHERE id=$2`

	var claimed []model.Participant
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, opts.MaxAttempts, opts.StaleBefore, opts.Limit)
		if err != nil {
			return err
		}

		var batch []model.Participant
		for rows.Next() {
			p, err := scanParticipant(rows)
			if err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, *p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range batch {
			if _, err := tx.Exec(ctx, claimQuery, opts.Now, batch[i].ID); err != nil {
				return err
			}
			now := opts.Now
			batch[i].NotifyClaimedAt = &now
			batch[i].NotifyAttempts++
		}
		claimed = batch
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim pending notifications: %w", err)
	}
	return claimed, nil
}

func (r *notificationRepository) MarkNotified(ctx context.Context, participantID string, at time.Time) error {
	const query = `UPDATE participants SET notified_at=$1, notify_claimed_at=NULL WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, at, participantID)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var _ repository.Factory = (*Storage)(nil)
