package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/alexanderramin/circusagent/internal/domain"
)

// festivalColumns is the canonical SELECT column list for festivals.
const festivalColumns = `id, name, country, town, festival_type, website_url,
		contact_person, contact_email, start_date, end_date, approximate_date,
		application_window_start, application_window_end, application_type,
		description, comments, created_at, updated_at`

// SQLiteFestivalRepo implements FestivalRepo on any DBTX, so it works both on
// the pool and inside a UnitOfWork transaction.
type SQLiteFestivalRepo struct {
	db db.DBTX
}

func NewSQLiteFestivalRepo(db db.DBTX) *SQLiteFestivalRepo {
	return &SQLiteFestivalRepo{db: db}
}

func (r *SQLiteFestivalRepo) Create(ctx context.Context, f *domain.Festival) error {
	query := `INSERT INTO festivals (` + festivalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.Name,
		f.Country,
		f.Town,
		string(f.FestivalType),
		f.WebsiteURL,
		f.ContactPerson,
		f.ContactEmail,
		nullableDate(f.StartDate),
		nullableDate(f.EndDate),
		f.ApproximateDate,
		nullableDate(f.ApplicationWindowStart),
		nullableDate(f.ApplicationWindowEnd),
		string(f.ApplicationType),
		f.Description,
		f.Comments,
		f.CreatedAt.UTC().Format(time.RFC3339),
		f.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting festival %s: %w", f.ID, ErrUniqueViolation)
		}
		return fmt.Errorf("inserting festival: %w", err)
	}
	return nil
}

func (r *SQLiteFestivalRepo) GetByID(ctx context.Context, id string) (*domain.Festival, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+festivalColumns+` FROM festivals WHERE id = ?`, id)
	f, err := scanFestival(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("festival %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning festival: %w", err)
	}
	return f, nil
}

func (r *SQLiteFestivalRepo) FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Festival, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+festivalColumns+` FROM festivals WHERE id LIKE ? ESCAPE '\' ORDER BY name`,
		escapeLike(strings.ToLower(prefix))+"%")
	if err != nil {
		return nil, fmt.Errorf("finding festivals by prefix: %w", err)
	}
	return collectFestivals(rows)
}

func (r *SQLiteFestivalRepo) List(ctx context.Context, filter FestivalFilter) ([]*domain.Festival, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		where = append(where, "festival_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Country != "" {
		where = append(where, "country = ? COLLATE NOCASE")
		args = append(args, filter.Country)
	}
	if filter.MissingOnly {
		where = append(where, "(start_date IS NULL OR end_date IS NULL OR application_type = 'UNKNOWN')")
	}

	query := `SELECT ` + festivalColumns + ` FROM festivals`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing festivals: %w", err)
	}
	return collectFestivals(rows)
}

func (r *SQLiteFestivalRepo) Update(ctx context.Context, f *domain.Festival) error {
	query := `UPDATE festivals SET name = ?, country = ?, town = ?, festival_type = ?,
		website_url = ?, contact_person = ?, contact_email = ?, start_date = ?, end_date = ?,
		approximate_date = ?, application_window_start = ?, application_window_end = ?,
		application_type = ?, description = ?, comments = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		f.Name,
		f.Country,
		f.Town,
		string(f.FestivalType),
		f.WebsiteURL,
		f.ContactPerson,
		f.ContactEmail,
		nullableDate(f.StartDate),
		nullableDate(f.EndDate),
		f.ApproximateDate,
		nullableDate(f.ApplicationWindowStart),
		nullableDate(f.ApplicationWindowEnd),
		string(f.ApplicationType),
		f.Description,
		f.Comments,
		f.UpdatedAt.UTC().Format(time.RFC3339),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating festival: %w", err)
	}
	return requireAffected(res, "festival", f.ID)
}

// Delete removes the festival; its applications go with it via ON DELETE CASCADE.
func (r *SQLiteFestivalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting festival: %w", err)
	}
	return requireAffected(res, "festival", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFestival(row rowScanner) (*domain.Festival, error) {
	var f domain.Festival
	var ftype, atype, createdAt, updatedAt string
	var start, end, winStart, winEnd sql.NullString

	err := row.Scan(
		&f.ID, &f.Name, &f.Country, &f.Town, &ftype, &f.WebsiteURL,
		&f.ContactPerson, &f.ContactEmail, &start, &end, &f.ApproximateDate,
		&winStart, &winEnd, &atype,
		&f.Description, &f.Comments, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.FestivalType = domain.FestivalType(ftype)
	f.ApplicationType = domain.ApplicationType(atype)
	f.StartDate = start.String
	f.EndDate = end.String
	f.ApplicationWindowStart = winStart.String
	f.ApplicationWindowEnd = winEnd.String

	if f.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFestivals(rows *sql.Rows) ([]*domain.Festival, error) {
	defer rows.Close()
	var out []*domain.Festival
	for rows.Next() {
		f, err := scanFestival(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning festival row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating festivals: %w", err)
	}
	return out, nil
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user prefixes match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`%`, `\%`, `_`, `\_`).Replace(s)
}
