// Package sqlite provides a SQLite-backed participant store for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const participantColumns = `id, full_name, email, phone, code, redeemed, redeemed_at, created_at, notified_at, notify_attempts, notify_claimed_at`

var schema = []string{
	`CREATE TABLE IF NOT EXISTS participants (
        id TEXT PRIMARY KEY,
        full_name TEXT NOT NULL,
        email TEXT,
        phone TEXT,
        code TEXT NOT NULL,
        redeemed INTEGER NOT NULL DEFAULT 0,
        redeemed_at INTEGER,
        created_at INTEGER NOT NULL,
        notified_at INTEGER,
        notify_attempts INTEGER NOT NULL DEFAULT 0,
        notify_claimed_at INTEGER,
        CONSTRAINT participants_email_key UNIQUE (email),
        CONSTRAINT participants_phone_key UNIQUE (phone),
        CONSTRAINT participants_code_key UNIQUE (code),
        CHECK (email IS NOT NULL OR phone IS NOT NULL)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_participants_pending ON participants(created_at) WHERE notified_at IS NULL`,
}

// Store persists participants in SQLite.
type Store struct {
	sqlDB *sql.DB
}

type participantRepository struct {
	store *Store
}

type notificationRepository struct {
	store *Store
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

// Open opens a SQLite store at path and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite db: %w", err)
	}
	return nil
}

// Participants returns the participant repository.
func (s *Store) Participants() repository.ParticipantRepository {
	return &participantRepository{store: s}
}

// Notifications returns the gift link delivery repository.
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{store: s}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*model.Participant, error) {
	var (
		p                                 model.Participant
		email, phone                      sql.NullString
		redeemed                          bool
		redeemedAt, notifiedAt, claimedAt sql.NullInt64
		createdAt                         int64
	)
	err := row.Scan(
		&p.ID, &p.FullName, &email, &phone, &p.Code, &redeemed, &redeemedAt,
		&createdAt, &notifiedAt, &p.NotifyAttempts, &claimedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Email = stringPtr(email)
	p.Phone = stringPtr(phone)
	p.Redeemed = redeemed
	p.RedeemedAt = timePtr(redeemedAt)
	p.CreatedAt = fromMillis(createdAt)
	p.NotifiedAt = timePtr(notifiedAt)
	p.NotifyClaimedAt = timePtr(claimedAt)
	return &p, nil
}

// uniqueViolation maps a SQLite UNIQUE failure to the domain error for the offending column.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	isUnique := errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	message := strings.ToLower(err.Error())
	if !isUnique && !strings.Contains(message, "unique constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(message, "participants.email"):
		return domainErrors.ErrEmailTaken
	case strings.Contains(message, "participants.phone"):
		return domainErrors.ErrPhoneTaken
	case strings.Contains(message, "participants.code"):
		return domainErrors.ErrCodeTaken
	}
	return nil
}

func optionalString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

// --- ParticipantRepository implementation ---

func (r *participantRepository) Create(ctx context.Context, p *model.Participant) error {
	const query = `INSERT INTO participants (id, full_name, email, phone, code, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.store.sqlDB.ExecContext(ctx, query,
		p.ID, p.FullName, optionalString(p.Email), optionalString(p.Phone), p.Code, toMillis(p.CreatedAt),
	)
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
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
	query := `SELECT ` + participantColumns + ` FROM participants WHERE ` + column + ` = ?`
	p, err := scanParticipant(r.store.sqlDB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("select participant by %s: %w", column, err)
	}
	return p, nil
}

func (r *participantRepository) MarkRedeemed(ctx context.Context, code string, at time.Time) (*model.Participant, error) {
	const query = `UPDATE participants SET redeemed = 1, redeemed_at = ?
        WHERE code = ? AND redeemed = 0
        RETURNING ` + participantColumns
	p, err := scanParticipant(r.store.sqlDB.QueryRowContext(ctx, query, toMillis(at), code))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
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
          AND notify_attempts < ?
          AND (notify_claimed_at IS NULL OR notify_claimed_at < ?)
        ORDER BY created_at, id
        LIMIT ?`
	const claimQuery = `UPDATE participants SET notify_claimed_at = ?, notify_attempts = notify_attempts + 1 WHERE id = ?`

	if opts.Limit <= 0 {
		return nil, nil
	}

	tx, err := r.store.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, selectQuery, opts.MaxAttempts, toMillis(opts.StaleBefore), opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("select pending notifications: %w", err)
	}
	var batch []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan pending notification: %w", err)
		}
		batch = append(batch, *p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	claimedAt := toMillis(opts.Now)
	for i := range batch {
		if _, err := tx.ExecContext(ctx, claimQuery, claimedAt, batch[i].ID); err != nil {
			return nil, fmt.Errorf("claim notification: %w", err)
		}
		now := fromMillis(claimedAt)
		batch[i].NotifyClaimedAt = &now
		batch[i].NotifyAttempts++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return batch, nil
}

func (r *notificationRepository) MarkNotified(ctx context.Context, participantID string, at time.Time) error {
	const query = `UPDATE participants SET notified_at = ?, notify_claimed_at = NULL WHERE id = ?`
	res, err := r.store.sqlDB.ExecContext(ctx, query, toMillis(at), participantID)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if affected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var _ repository.Factory = (*Store)(nil)
