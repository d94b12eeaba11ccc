package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/pkg/dbopen"
	"github.com/hazyhaar/pkg/idgen"
)

// ErrNotFound is returned when a filter id does not exist.
var ErrNotFound = errors.New("store: filter not found")

// IDPrefix scopes filter identifiers.
const IDPrefix = "flt_"

// Filter is a cosmetic filter: hide elements matching Selector on Host.
type Filter struct {
	ID        string `json:"id"`
	Host      string `json:"host"`
	Selector  string `json:"selector"`
	Enabled   bool   `json:"enabled"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Rule renders the filter in host##selector form.
func (f *Filter) Rule() string { return f.Host + "##" + f.Selector }

// NewID returns a prefixed, time-sortable filter id.
var NewID = idgen.Prefixed(IDPrefix, idgen.UUIDv7())

const filterColumns = `id, host, selector, enabled, created_at, updated_at`

// InsertFilter stores a filter. Inserting an existing (host, selector) pair
// is a no-op returning the stored filter.
func (s *Store) InsertFilter(ctx context.Context, host, selector string) (*Filter, error) {
	now := time.Now().UnixMilli()
	_, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO cosmetic_filters (`+filterColumns+`)
		VALUES (?,?,?,1,?,?)
		ON CONFLICT(host, selector) DO NOTHING`,
		NewID(), host, selector, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("store: insert filter: %w", err)
	}

	f, err := scanFilter(s.DB.QueryRowContext(ctx, `
		SELECT `+filterColumns+` FROM cosmetic_filters
		WHERE host = ? AND selector = ?`, host, selector))
	if err != nil {
		return nil, fmt.Errorf("store: insert filter: %w", err)
	}
	return f, nil
}

// GetFilter retrieves a filter by id.
func (s *Store) GetFilter(ctx context.Context, id string) (*Filter, error) {
	f, err := scanFilter(s.DB.QueryRowContext(ctx, `
		SELECT `+filterColumns+` FROM cosmetic_filters WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("store: get filter %s: %w", id, err)
	}
	return f, nil
}

// ListFilters returns filters ordered by host then creation time. An empty
// host lists every site.
func (s *Store) ListFilters(ctx context.Context, host string, enabledOnly bool) ([]*Filter, error) {
	query := `SELECT ` + filterColumns + ` FROM cosmetic_filters WHERE (? = '' OR host = ?)`
	if enabledOnly {
		query += ` AND enabled = 1`
	}
	query += ` ORDER BY host ASC, created_at ASC, id ASC`

	rows, err := s.DB.QueryContext(ctx, query, host, host)
	if err != nil {
		return nil, fmt.Errorf("store: list filters: %w", err)
	}
	defer rows.Close()

	var out []*Filter
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list filters: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetEnabled enables or disables a filter.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := dbopen.Exec(ctx, s.DB, `
		UPDATE cosmetic_filters SET enabled = ?, updated_at = ? WHERE id = ?`,
		boolInt(enabled), time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("store: set enabled: %w", err)
	}
	return affected(res, id)
}

// DeleteFilter removes a filter by id.
func (s *Store) DeleteFilter(ctx context.Context, id string) error {
	res, err := dbopen.Exec(ctx, s.DB, `DELETE FROM cosmetic_filters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete filter: %w", err)
	}
	return affected(res, id)
}

// ExportRules returns the enabled filters as host##selector lines.
func (s *Store) ExportRules(ctx context.Context, host string) ([]string, error) {
	fs, err := s.ListFilters(ctx, host, true)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Rule()
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFilter(row scanner) (*Filter, error) {
	f := &Filter{}
	var enabled int
	err := row.Scan(&f.ID, &f.Host, &f.Selector, &enabled, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.Enabled = enabled != 0
	return f, nil
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
