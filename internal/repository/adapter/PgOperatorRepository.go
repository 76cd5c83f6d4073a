package adapter

import (
	"context"
	"errors"
	"time"

	repository "github.com/Backora/pulse-app/internal/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgOperatorRepository stores operator profiles in pulse.operators.
type PgOperatorRepository struct {
	pool *pgxpool.Pool
}

func NewPgOperatorRepository(pool *pgxpool.Pool) *PgOperatorRepository {
	return &PgOperatorRepository{pool: pool}
}

var _ repository.OperatorRepository = (*PgOperatorRepository)(nil)

func (r *PgOperatorRepository) Register(ctx context.Context, id string) (*repository.Operator, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgOperatorRepository: nil pool")
	}
	op := repository.Operator{ID: id, RegisteredAt: time.Now().UTC()}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pulse.operators (operator_id, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (operator_id) DO UPDATE SET operator_id = EXCLUDED.operator_id
		RETURNING operator_id, registered_at
	`, op.ID, op.RegisteredAt).Scan(&op.ID, &op.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *PgOperatorRepository) FindByID(ctx context.Context, id string) (*repository.Operator, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgOperatorRepository: nil pool")
	}
	var op repository.Operator
	err := r.pool.QueryRow(ctx, `
		SELECT operator_id, registered_at FROM pulse.operators
		WHERE lower(operator_id) = lower($1)
	`, id).Scan(&op.ID, &op.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *PgOperatorRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgOperatorRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		DELETE FROM pulse.operators WHERE lower(operator_id) = lower($1)
	`, id)
	return err
}
