package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

// List returns all events ordered by date, each with its category name and
// fee tiers attached. Public listing, so no pagination: the festival runs a
// few dozen events at most.
func (r *Repository) List(ctx context.Context) ([]*Event, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.event_id, e.event_name, e.category_id, c.category_name,
		       e.event_date, e.event_picture, e.rulebook, e.description,
		       e.is_registration_open, e.created_at
		FROM event e
		LEFT JOIN event_category c ON c.category_id = e.category_id
		ORDER BY e.event_date ASC NULLS LAST, e.event_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	byID := map[int64]*Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.EventID, &e.EventName, &e.CategoryID, &e.CategoryName,
			&e.EventDate, &e.EventPicture, &e.Rulebook, &e.Description,
			&e.IsRegistrationOpen, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, &e)
		byID[e.EventID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	feeRows, err := r.q.Query(ctx, `
		SELECT ef.event_id, f.fee_id, f.participation_type, f.price, f.min_members, f.max_members
		FROM event_fee ef
		JOIN fee f ON f.fee_id = ef.fee_id
		ORDER BY ef.event_id, f.price ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list event fees: %w", err)
	}
	defer feeRows.Close()

	for feeRows.Next() {
		var eventID int64
		var f Fee
		if err := feeRows.Scan(&eventID, &f.FeeID, &f.ParticipationType, &f.Price, &f.MinMembers, &f.MaxMembers); err != nil {
			return nil, fmt.Errorf("scan event fee: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.Fees = append(e.Fees, f)
		}
	}
	return out, feeRows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	var e Event
	err := r.q.QueryRow(ctx, `
		SELECT e.event_id, e.event_name, e.category_id, c.category_name,
		       e.event_date, e.event_picture, e.rulebook, e.description,
		       e.is_registration_open, e.created_at
		FROM event e
		LEFT JOIN event_category c ON c.category_id = e.category_id
		WHERE e.event_id = $1
	`, id).Scan(
		&e.EventID, &e.EventName, &e.CategoryID, &e.CategoryName,
		&e.EventDate, &e.EventPicture, &e.Rulebook, &e.Description,
		&e.IsRegistrationOpen, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	feeRows, err := r.q.Query(ctx, `
		SELECT f.fee_id, f.participation_type, f.price, f.min_members, f.max_members
		FROM event_fee ef
		JOIN fee f ON f.fee_id = ef.fee_id
		WHERE ef.event_id = $1
		ORDER BY f.price ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get event fees: %w", err)
	}
	defer feeRows.Close()

	for feeRows.Next() {
		var f Fee
		if err := feeRows.Scan(&f.FeeID, &f.ParticipationType, &f.Price, &f.MinMembers, &f.MaxMembers); err != nil {
			return nil, fmt.Errorf("scan fee: %w", err)
		}
		e.Fees = append(e.Fees, f)
	}
	return &e, feeRows.Err()
}

func (r *Repository) Create(ctx context.Context, e *Event) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO event (event_name, category_id, event_date, event_picture, rulebook, description, is_registration_open)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING event_id, is_registration_open, created_at
	`, e.EventName, e.CategoryID, e.EventDate, e.EventPicture, e.Rulebook, e.Description).
		Scan(&e.EventID, &e.IsRegistrationOpen, &e.CreatedAt)
}

// Update applies a partial update. Column names are whitelisted; unknown
// keys are rejected rather than silently dropped.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	allowed := map[string]bool{
		"event_name": true, "category_id": true, "event_date": true,
		"event_picture": true, "rulebook": true, "description": true,
		"is_registration_open": true,
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		if !allowed[col] {
			return fmt.Errorf("unknown event column: %s", col)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	if len(setClauses) == 0 {
		return fmt.Errorf("no fields to update")
	}
	args = append(args, id)

	tag, err := r.q.Exec(ctx,
		fmt.Sprintf("UPDATE event SET %s WHERE event_id = $%d", strings.Join(setClauses, ", "), i),
		args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM event WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FeeFor resolves the fee tier for an event and participation type. Used by
// registration order creation so price is never taken from the client.
func (r *Repository) FeeFor(ctx context.Context, eventID int64, participationType string) (*Fee, error) {
	var f Fee
	err := r.q.QueryRow(ctx, `
		SELECT f.fee_id, f.participation_type, f.price, f.min_members, f.max_members
		FROM event_fee ef
		JOIN fee f ON f.fee_id = ef.fee_id
		WHERE ef.event_id = $1 AND LOWER(f.participation_type) = LOWER($2)
	`, eventID, participationType).
		Scan(&f.FeeID, &f.ParticipationType, &f.Price, &f.MinMembers, &f.MaxMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fee for event: %w", err)
	}
	return &f, nil
}
