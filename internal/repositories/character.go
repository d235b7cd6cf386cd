package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

// CharacterRecord is the on-disk projection of a [models.MarvelCharacter].
type CharacterRecord struct {
	ID           string
	Sequence     int
	Name         string
	Description  sql.NullString
	ThumbnailURL sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    sql.NullTime
}

// NewCharacterRecord maps a domain character to its storage form. Empty optional fields are stored as NULL.
// Resource URL ids are stored as their bare id, see [models.CharacterID].
func NewCharacterRecord(c models.MarvelCharacter) *CharacterRecord {
	return &CharacterRecord{
		ID:           models.CharacterID(c.ID),
		Name:         c.Name,
		Description:  nullString(c.Description),
		ThumbnailURL: nullString(c.ThumbnailURL),
	}
}

// Character maps the record back to the domain entity.
func (r *CharacterRecord) Character() models.MarvelCharacter {
	return models.MarvelCharacter{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description.String,
		ThumbnailURL: r.ThumbnailURL.String,
	}
}

// Deleted reports whether the record carries a soft-delete marker.
func (r *CharacterRecord) Deleted() bool {
	return r.DeletedAt.Valid
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const characterColumns = "id, sequence, name, description, thumbnail_url, created_at, updated_at, deleted_at"

// CharacterRepository persists saved characters in SQLite and announces every committed write on its [ChangeFeed].
//
// Concurrent writers to one id are not coordinated: the last committed write wins.
type CharacterRepository struct {
	db     *sql.DB
	feed   *ChangeFeed
	closed atomic.Bool
	now    func() time.Time
}

// NewCharacterRepository creates a new CharacterRepository with the given database connection
func NewCharacterRepository(db *sql.DB) *CharacterRepository {
	return &CharacterRepository{
		db:   db,
		feed: NewChangeFeed(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Feed returns the repository's change feed.
func (r *CharacterRepository) Feed() *ChangeFeed {
	return r.feed
}

// Insert saves rec, overwriting any existing row with the same id.
//
// A soft-deleted row is revived in place with a fresh sequence and creation time.
// On return rec carries the stored sequence and timestamps.
func (r *CharacterRepository) Insert(ctx context.Context, rec *CharacterRecord) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	if err := rec.Character().Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "characters")
	if err != nil {
		return storageErr("failed to generate sequence", err)
	}

	now := r.now()
	query := `
		INSERT INTO characters (id, sequence, name, description, thumbnail_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sequence = CASE WHEN characters.deleted_at IS NULL THEN characters.sequence ELSE excluded.sequence END,
			created_at = CASE WHEN characters.deleted_at IS NULL THEN characters.created_at ELSE excluded.created_at END,
			name = excluded.name,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`

	_, err = tx.ExecContext(ctx, query,
		rec.ID,
		sequence,
		rec.Name,
		rec.Description,
		rec.ThumbnailURL,
		now,
		now,
	)
	if err != nil {
		return storageErr("failed to insert character", err)
	}

	var createdAt time.Time
	err = tx.QueryRowContext(ctx, "SELECT sequence, created_at FROM characters WHERE id = ?", rec.ID).Scan(&rec.Sequence, &createdAt)
	if err != nil {
		return storageErr("failed to read back character", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("failed to commit character", err)
	}

	rec.CreatedAt = createdAt
	rec.UpdatedAt = now
	rec.DeletedAt = sql.NullTime{}

	r.feed.Publish(Change{ID: rec.ID, Op: OpInsert})
	return nil
}

// Update modifies an existing saved character. Returns [shared.ErrNotFound] when no live row has rec.ID.
func (r *CharacterRepository) Update(ctx context.Context, rec *CharacterRecord) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	if err := rec.Character().Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := r.now()
	query := `
		UPDATE characters
		SET name = ?, description = ?, thumbnail_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, rec.Name, rec.Description, rec.ThumbnailURL, now, rec.ID)
	if err != nil {
		return storageErr("failed to update character", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("failed to get affected rows", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: character %s", shared.ErrNotFound, rec.ID)
	}

	rec.UpdatedAt = now
	r.feed.Publish(Change{ID: rec.ID, Op: OpUpdate})
	return nil
}

// Delete soft-deletes a character by ID. Deleting an absent or already deleted id is a no-op.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	query := `
		UPDATE characters
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, r.now(), id)
	if err != nil {
		return storageErr("failed to delete character", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("failed to get affected rows", err)
	}
	if rows > 0 {
		r.feed.Publish(Change{ID: id, Op: OpDelete})
	}

	return nil
}

// Get retrieves a character by ID, excluding soft-deleted rows
func (r *CharacterRepository) Get(ctx context.Context, id string) (*CharacterRecord, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = ? AND deleted_at IS NULL`

	rec, err := scanCharacter(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: character %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageErr("failed to scan character", err)
	}

	return rec, nil
}

// List retrieves saved characters in save order, excluding soft-deleted rows.
//
// Supported criteria: "name" (case-insensitive prefix) and "limit" (int).
func (r *CharacterRepository) List(ctx context.Context, criteria map[string]any) ([]*CharacterRecord, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + characterColumns + ` FROM characters WHERE deleted_at IS NULL`
	args := []any{}

	if name, ok := criteria["name"].(string); ok && strings.TrimSpace(name) != "" {
		query += " AND name LIKE ? ESCAPE '\\'"
		args = append(args, escapeLike(strings.TrimSpace(name))+"%")
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("failed to query characters", err)
	}
	defer rows.Close()

	records := []*CharacterRecord{}
	for rows.Next() {
		rec, err := scanCharacter(rows)
		if err != nil {
			return nil, storageErr("failed to scan character", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("row iteration error", err)
	}

	return records, nil
}

// Watch subscribes to committed writes affecting id, or to every write when id is "".
func (r *CharacterRepository) Watch(ctx context.Context, id string) (<-chan struct{}, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	return r.feed.Subscribe(ctx, id)
}

// Close ends every watch. The underlying database is owned by the caller and stays open.
func (r *CharacterRepository) Close() error {
	if r.closed.CompareAndSwap(false, true) {
		r.feed.Close()
	}
	return nil
}

func (r *CharacterRepository) check(ctx context.Context) error {
	if r.closed.Load() {
		return shared.ErrStoreClosed
	}
	return ctx.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCharacter scans a single [sql.Row] or the current [sql.Rows] row into a [CharacterRecord]
func scanCharacter(row rowScanner) (*CharacterRecord, error) {
	var rec CharacterRecord
	err := row.Scan(
		&rec.ID,
		&rec.Sequence,
		&rec.Name,
		&rec.Description,
		&rec.ThumbnailURL,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func storageErr(msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrStorage, msg, err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
