package adapter

import (
	"context"
	"errors"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgPulseRepository persists the pulse domain in Postgres.
//
// Schema (tables under the pulse schema):
//   pulse.pulses(pulse_code PK-among-live, creator_id, created_at, expires_at)
//   pulse.memberships(pulse_code, operator_id) PK (pulse_code, operator_id)
//   pulse.messages(id, pulse_code, sender, content, created_at)
type PgPulseRepository struct {
	pool *pgxpool.Pool
}

func NewPgPulseRepository(pool *pgxpool.Pool) *PgPulseRepository {
	return &PgPulseRepository{pool: pool}
}

var _ repository.PulseRepository = (*PgPulseRepository)(nil)

func (r *PgPulseRepository) CreatePulse(ctx context.Context, p pulse.Pulse) error {
	if r == nil || r.pool == nil {
		return errors.New("PgPulseRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pulse.pulses (pulse_code, creator_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, p.Code, p.CreatorID, p.CreatedAt, p.ExpiresAt)
	return err
}

func (r *PgPulseRepository) GetPulseByCode(ctx context.Context, code string) (*pulse.Pulse, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgPulseRepository: nil pool")
	}
	var p pulse.Pulse
	err := r.pool.QueryRow(ctx, `
		SELECT pulse_code, creator_id, created_at, expires_at
		FROM pulse.pulses
		WHERE pulse_code = $1
	`, code).Scan(&p.Code, &p.CreatorID, &p.CreatedAt, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePulse removes the pulse row together with its memberships and
// messages in one transaction so a partial cascade never survives.
func (r *PgPulseRepository) DeletePulse(ctx context.Context, code string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgPulseRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := deletePulseTx(ctx, tx, code); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func deletePulseTx(ctx context.Context, tx pgx.Tx, code string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM pulse.messages WHERE pulse_code = $1`, code); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pulse.memberships WHERE pulse_code = $1`, code); err != nil {
		return err
	}
	// Zero rows affected is fine: delete is idempotent.
	_, err := tx.Exec(ctx, `DELETE FROM pulse.pulses WHERE pulse_code = $1`, code)
	return err
}

func (r *PgPulseRepository) AddMembership(ctx context.Context, m pulse.Membership) error {
	if r == nil || r.pool == nil {
		return errors.New("PgPulseRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pulse.memberships (pulse_code, operator_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (pulse_code, operator_id) DO NOTHING
	`, m.PulseCode, m.OperatorID, m.JoinedAt)
	return err
}

func (r *PgPulseRepository) HasMembership(ctx context.Context, code, operatorID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgPulseRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pulse.memberships
			WHERE pulse_code = $1 AND lower(operator_id) = lower($2)
		)
	`, code, operatorID).Scan(&exists)
	return exists, err
}

func (r *PgPulseRepository) SaveMessage(ctx context.Context, m pulse.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgPulseRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pulse.messages (pulse_code, sender, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, m.PulseCode, m.Sender, m.Content, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgPulseRepository) GetMessagesByPulse(ctx context.Context, code string, limit, offset int) ([]pulse.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgPulseRepository: nil pool")
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, pulse_code, sender, content, created_at
		FROM pulse.messages
		WHERE pulse_code = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, code, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []pulse.Message
	for rows.Next() {
		var m pulse.Message
		if err := rows.Scan(&m.ID, &m.PulseCode, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgPulseRepository) CountMessages(ctx context.Context, code string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgPulseRepository: nil pool")
	}
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM pulse.messages WHERE pulse_code = $1
	`, code).Scan(&n)
	return n, err
}

func (r *PgPulseRepository) ListPulsesByOperator(ctx context.Context, operatorID string) ([]pulse.Pulse, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgPulseRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT p.pulse_code, p.creator_id, p.created_at, p.expires_at
		FROM pulse.pulses p
		WHERE lower(p.creator_id) = lower($1)
		UNION
		SELECT p.pulse_code, p.creator_id, p.created_at, p.expires_at
		FROM pulse.pulses p
		JOIN pulse.memberships m ON m.pulse_code = p.pulse_code
		WHERE lower(m.operator_id) = lower($1)
	`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pulses []pulse.Pulse
	for rows.Next() {
		var p pulse.Pulse
		if err := rows.Scan(&p.Code, &p.CreatorID, &p.CreatedAt, &p.ExpiresAt); err != nil {
			return nil, err
		}
		pulses = append(pulses, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return pulses, nil
}

// DeletePulsesByCreator cascades every pulse owned by the operator in a
// single transaction, mirroring the store-side panic procedure.
func (r *PgPulseRepository) DeletePulsesByCreator(ctx context.Context, operatorID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgPulseRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT pulse_code FROM pulse.pulses WHERE lower(creator_id) = lower($1)
	`, operatorID)
	if err != nil {
		return err
	}
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return err
		}
		codes = append(codes, code)
	}
	rows.Close()
	if rows.Err() != nil {
		return rows.Err()
	}

	for _, code := range codes {
		if err := deletePulseTx(ctx, tx, code); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
