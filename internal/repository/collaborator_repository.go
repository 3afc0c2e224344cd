package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
)

var (
	// ErrNotFound is returned when no collaborator has the requested id.
	ErrNotFound = errors.New("collaborator not found")
	// ErrConflict is returned when a collaborator id is already taken.
	ErrConflict = errors.New("collaborator already exists")
)

const (
	uniqueViolationCode       = "23505"
	invalidTextRepresentation = "22P02"
)

// CollaboratorRepository handles persistence for roster records.
type CollaboratorRepository interface {
	List(ctx context.Context) ([]domain.Collaborator, error)
	GetByID(ctx context.Context, id string) (*domain.Collaborator, error)
	Create(ctx context.Context, c *domain.Collaborator) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type collaboratorRepository struct {
	db persistence.Queryer
}

// NewCollaboratorRepository instantiates the postgres-backed repository.
func NewCollaboratorRepository(db persistence.Queryer) CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

const selectCollaborators = `
        SELECT id::text, name, COALESCE(email, ''), role, COALESCE(status, ''), COALESCE(unit, ''), COALESCE(photo_url, ''), created_at
        FROM collaborators`

func (r *collaboratorRepository) List(ctx context.Context) ([]domain.Collaborator, error) {
	rows, err := persistence.QueryerFromContext(ctx, r.db).Query(ctx, selectCollaborators+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Collaborator, 0)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	return result, nil
}

func (r *collaboratorRepository) GetByID(ctx context.Context, id string) (*domain.Collaborator, error) {
	row := persistence.QueryerFromContext(ctx, r.db).QueryRow(ctx, selectCollaborators+" WHERE id = $1", id)
	c, err := scanCollaborator(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &c, nil
}

func (r *collaboratorRepository) Create(ctx context.Context, c *domain.Collaborator) error {
	const query = `
        INSERT INTO collaborators (id, name, email, role, status, unit, photo_url)
        VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
        RETURNING created_at`

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := persistence.QueryerFromContext(ctx, r.db).QueryRow(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Role,
		c.Status,
		c.Unit,
		c.PhotoURL,
	).Scan(&c.CreatedAt)
	return translatePgError(err)
}

func (r *collaboratorRepository) Delete(ctx context.Context, id string) error {
	tag, err := persistence.QueryerFromContext(ctx, r.db).Exec(ctx, `DELETE FROM collaborators WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *collaboratorRepository) Ping(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `SELECT 1`)
	return err
}

func scanCollaborator(row pgx.Row) (domain.Collaborator, error) {
	var c domain.Collaborator
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Role,
		&c.Status,
		&c.Unit,
		&c.PhotoURL,
		&c.CreatedAt,
	)
	return c, err
}

func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return ErrConflict
		case invalidTextRepresentation:
			// a malformed uuid cannot name an existing row
			return ErrNotFound
		}
	}
	return err
}
