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

const applicationColumns = `id, festival_id, cycle_year, application_date, method, status,
		subject, body, attachments_sent, attachments_received,
		answer_received, answer_date, follow_up_date,
		contract_signed, payment_received, payment_amount,
		comments, last_error, created_at, updated_at`

// SQLiteApplicationRepo implements ApplicationRepo on any DBTX.
type SQLiteApplicationRepo struct {
	db db.DBTX
}

func NewSQLiteApplicationRepo(db db.DBTX) *SQLiteApplicationRepo {
	return &SQLiteApplicationRepo{db: db}
}

// Create inserts a. One application per festival and cycle is enforced by
// the caller, since cycle years depend on the configured cutoff.
func (r *SQLiteApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	sent, err := encodeList(a.AttachmentsSent)
	if err != nil {
		return err
	}
	received, err := encodeList(a.AttachmentsReceived)
	if err != nil {
		return err
	}

	query := `INSERT INTO applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		a.FestivalID,
		a.CycleYear,
		a.ApplicationDate.UTC().Format(time.RFC3339),
		string(a.Method),
		string(a.Status),
		a.Subject,
		a.Body,
		sent,
		received,
		boolToInt(a.AnswerReceived),
		nullableTimeToString(a.AnswerDate, domain.DateLayout),
		nullableTimeToString(a.FollowUpDate, domain.DateLayout),
		boolToInt(a.ContractSigned),
		boolToInt(a.PaymentReceived),
		nullableFloat(a.PaymentAmount),
		a.Comments,
		a.LastError,
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting application %s: %w", a.ID, ErrUniqueViolation)
		}
		return fmt.Errorf("inserting application: %w", err)
	}
	return nil
}

func (r *SQLiteApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning application: %w", err)
	}
	return a, nil
}

func (r *SQLiteApplicationRepo) FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id LIKE ? ESCAPE '\' ORDER BY application_date`,
		escapeLike(strings.ToLower(prefix))+"%")
	if err != nil {
		return nil, fmt.Errorf("finding applications by prefix: %w", err)
	}
	return collectApplications(rows)
}

func (r *SQLiteApplicationRepo) ListByFestivalCycle(ctx context.Context, festivalID string, cycleYear int) ([]*domain.Application, error) {
	return r.List(ctx, ApplicationFilter{FestivalID: festivalID, CycleYear: cycleYear})
}

func (r *SQLiteApplicationRepo) List(ctx context.Context, filter ApplicationFilter) ([]*domain.Application, error) {
	var where []string
	var args []any
	if filter.FestivalID != "" {
		where = append(where, "festival_id = ?")
		args = append(args, filter.FestivalID)
	}
	if filter.CycleYear != 0 {
		where = append(where, "cycle_year = ?")
		args = append(args, filter.CycleYear)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY application_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return collectApplications(rows)
}

// SetCycleYear restamps the stored cycle of one application.
func (r *SQLiteApplicationRepo) SetCycleYear(ctx context.Context, id string, cycleYear int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET cycle_year = ? WHERE id = ?`, cycleYear, id)
	if err != nil {
		return fmt.Errorf("updating application cycle: %w", err)
	}
	return requireAffected(res, "application", id)
}

// Update writes every mutable column. festival_id is fixed at creation and
// cycle_year changes only through SetCycleYear.
func (r *SQLiteApplicationRepo) Update(ctx context.Context, a *domain.Application) error {
	sent, err := encodeList(a.AttachmentsSent)
	if err != nil {
		return err
	}
	received, err := encodeList(a.AttachmentsReceived)
	if err != nil {
		return err
	}

	query := `UPDATE applications SET method = ?, status = ?, subject = ?, body = ?,
		attachments_sent = ?, attachments_received = ?, answer_received = ?, answer_date = ?,
		follow_up_date = ?, contract_signed = ?, payment_received = ?, payment_amount = ?,
		comments = ?, last_error = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(a.Method),
		string(a.Status),
		a.Subject,
		a.Body,
		sent,
		received,
		boolToInt(a.AnswerReceived),
		nullableTimeToString(a.AnswerDate, domain.DateLayout),
		nullableTimeToString(a.FollowUpDate, domain.DateLayout),
		boolToInt(a.ContractSigned),
		boolToInt(a.PaymentReceived),
		nullableFloat(a.PaymentAmount),
		a.Comments,
		a.LastError,
		a.UpdatedAt.UTC().Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating application: %w", err)
	}
	return requireAffected(res, "application", a.ID)
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var a domain.Application
	var method, status, sent, received, appDate, createdAt, updatedAt string
	var answerReceived, contractSigned, paymentReceived int
	var answerDate, followUp sql.NullString
	var amount sql.NullFloat64

	err := row.Scan(
		&a.ID, &a.FestivalID, &a.CycleYear, &appDate, &method, &status,
		&a.Subject, &a.Body, &sent, &received,
		&answerReceived, &answerDate, &followUp,
		&contractSigned, &paymentReceived, &amount,
		&a.Comments, &a.LastError, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Method = domain.Method(method)
	a.Status = domain.ApplicationStatus(status)
	a.AnswerReceived = intToBool(answerReceived)
	a.ContractSigned = intToBool(contractSigned)
	a.PaymentReceived = intToBool(paymentReceived)
	a.AnswerDate = parseNullableTime(answerDate, domain.DateLayout)
	a.FollowUpDate = parseNullableTime(followUp, domain.DateLayout)
	if amount.Valid {
		v := amount.Float64
		a.PaymentAmount = &v
	}

	if a.AttachmentsSent, err = decodeList(sent); err != nil {
		return nil, err
	}
	if a.AttachmentsReceived, err = decodeList(received); err != nil {
		return nil, err
	}
	if a.ApplicationDate, err = parseTimestamp("application_date", appDate); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func collectApplications(rows *sql.Rows) ([]*domain.Application, error) {
	defer rows.Close()
	var out []*domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applications: %w", err)
	}
	return out, nil
}
