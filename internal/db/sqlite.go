package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RichardoC/chat-thread/internal/models"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    title_source TEXT,
    log TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (owner_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id);`

// ErrUsernameTaken reports a signup against an already-registered name.
var ErrUsernameTaken = errors.New("username already registered")

type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

func (db *Database) CreateAccount(ctx context.Context, username, password string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	query := `
        INSERT INTO accounts (username, password_hash, created_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        RETURNING id, created_at`

	acct := &models.Account{Username: username, PasswordHash: string(hash)}
	err = db.db.QueryRowContext(ctx, query, username, string(hash)).Scan(&acct.ID, &acct.CreatedAt)
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return acct, nil
}

func (db *Database) FindAccountByUsername(ctx context.Context, username string) (*models.Account, bool, error) {
	query := `
        SELECT id, username, password_hash, created_at
        FROM accounts
        WHERE username = ?`

	var acct models.Account
	err := db.db.QueryRowContext(ctx, query, username).
		Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &acct, true, nil
}

func (db *Database) FindAccountByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	query := `
        SELECT id, username, password_hash, created_at
        FROM accounts
        WHERE id = ?`

	var acct models.Account
	err := db.db.QueryRowContext(ctx, query, id).
		Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &acct, true, nil
}

func (db *Database) VerifyPassword(acct *models.Account, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(plaintext)) == nil
}

// GetSession looks a session up by (id, owner) pair. Ownership is part of
// the key, so a foreign session reads as absent.
func (db *Database) GetSession(ctx context.Context, sessionID, ownerID int64) (*models.SessionRecord, bool, error) {
	query := `
        SELECT id, owner_id, title_source, log, created_at, updated_at
        FROM sessions
        WHERE id = ? AND owner_id = ?`

	rec, err := scanSession(db.db.QueryRowContext(ctx, query, sessionID, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// InsertSession persists a new session and returns its assigned id. A
// session with no turns is never a valid durable state, so empty logs are
// rejected here rather than silently stored.
func (db *Database) InsertSession(ctx context.Context, rec *models.SessionRecord) (int64, error) {
	if rec.Log == "" || rec.Log == "[]" {
		return 0, errors.New("refusing to insert session with empty log")
	}

	query := `
        INSERT INTO sessions (owner_id, title_source, log, created_at, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
        RETURNING id`

	var id int64
	if err := db.db.QueryRowContext(ctx, query, rec.OwnerID, nullable(rec.TitleSource), rec.Log).Scan(&id); err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

func (db *Database) UpdateSession(ctx context.Context, rec *models.SessionRecord) error {
	query := `
        UPDATE sessions
        SET title_source = ?, log = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND owner_id = ?`

	_, err := db.db.ExecContext(ctx, query, nullable(rec.TitleSource), rec.Log, rec.ID, rec.OwnerID)
	return err
}

func (db *Database) DeleteSession(ctx context.Context, sessionID, ownerID int64) (int64, error) {
	res, err := db.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ? AND owner_id = ?", sessionID, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *Database) DeleteSessionsForOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := db.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE owner_id = ?", ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *Database) ListSessionsForOwner(ctx context.Context, ownerID int64) ([]models.SessionRecord, error) {
	query := `
        SELECT id, owner_id, title_source, log, created_at, updated_at
        FROM sessions
        WHERE owner_id = ?
        ORDER BY updated_at DESC, id DESC`

	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.SessionRecord, 0)
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	var title sql.NullString
	err := row.Scan(&rec.ID, &rec.OwnerID, &title, &rec.Log, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		rec.TitleSource = &title.String
	}
	return &rec, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
