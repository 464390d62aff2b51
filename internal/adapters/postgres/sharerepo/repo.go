package sharerepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
)

const selectShare = `
	SELECT id, plan_id, inviter_id, invitee_id, invitee_email, can_edit, status, created_at, updated_at
	FROM plan_shares
`

// Repo is a Postgres implementation of sharerepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, s domain.Share) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("share", s.ID)
	if err != nil {
		return err
	}
	planID, err := postgres.ParseID("plan", s.PlanID)
	if err != nil {
		return err
	}
	inviter, err := postgres.ParseID("user", s.InviterID)
	if err != nil {
		return err
	}
	invitee, err := postgres.ParseID("user", s.InviteeID)
	if err != nil {
		return err
	}
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO plan_shares (
			id, plan_id, inviter_id, invitee_id, invitee_email, can_edit, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, planID, inviter, invitee, s.InviteeEmail, s.CanEdit, string(s.Status), s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return sharerepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates the mutable fields; plan and invitee are the share's identity and are left alone.
func (r *Repo) Save(ctx context.Context, s domain.Share) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := uuid.Parse(string(s.ID))
	if err != nil {
		return sharerepo.ErrNotFound
	}
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `
		UPDATE plan_shares
		SET invitee_email = $2,
		    can_edit = $3,
		    status = $4,
		    updated_at = $5
		WHERE id = $1
	`, id, s.InviteeEmail, s.CanEdit, string(s.Status), s.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return sharerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ShareID) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	sid, err := uuid.Parse(string(id))
	if err != nil {
		return sharerepo.ErrNotFound
	}
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM plan_shares WHERE id = $1`, sid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return sharerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByPlan(ctx context.Context, planID domain.PlanID) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(planID))
	if err != nil {
		return nil
	}
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM plan_shares WHERE plan_id = $1`, pid)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id domain.ShareID) (domain.Share, error) {
	if r.db == nil {
		return domain.Share{}, postgres.ErrNilDB
	}
	sid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	return scanShare(postgres.Conn(ctx, r.db).QueryRow(ctx, selectShare+` WHERE id = $1`, sid))
}

func (r *Repo) GetByPlanAndInvitee(ctx context.Context, planID domain.PlanID, invitee domain.UserID) (domain.Share, error) {
	if r.db == nil {
		return domain.Share{}, postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(planID))
	if err != nil {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	uid, err := uuid.Parse(string(invitee))
	if err != nil {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	return scanShare(postgres.Conn(ctx, r.db).QueryRow(ctx, selectShare+` WHERE plan_id = $1 AND invitee_id = $2`, pid, uid))
}

func (r *Repo) ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.Share, error) {
	pid, err := uuid.Parse(string(planID))
	if err != nil {
		return []domain.Share{}, nil
	}
	return r.list(ctx, selectShare+` WHERE plan_id = $1 ORDER BY created_at ASC, id ASC`, pid)
}

func (r *Repo) ListByInvitee(ctx context.Context, invitee domain.UserID) ([]domain.Share, error) {
	uid, err := uuid.Parse(string(invitee))
	if err != nil {
		return []domain.Share{}, nil
	}
	return r.list(ctx, selectShare+` WHERE invitee_id = $1 ORDER BY created_at ASC, id ASC`, uid)
}

func (r *Repo) list(ctx context.Context, sql string, arg uuid.UUID) ([]domain.Share, error) {
	if r.db == nil {
		return nil, postgres.ErrNilDB
	}
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Share, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanShare(row pgx.Row) (domain.Share, error) {
	var (
		id, planID, inviter, invitee uuid.UUID
		inviteeEmail                 string
		canEdit                      bool
		status                       string
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(&id, &planID, &inviter, &invitee, &inviteeEmail, &canEdit, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Share{}, sharerepo.ErrNotFound
		}
		return domain.Share{}, err
	}
	return domain.Share{
		ID:           domain.ShareID(id.String()),
		PlanID:       domain.PlanID(planID.String()),
		InviterID:    domain.UserID(inviter.String()),
		InviteeID:    domain.UserID(invitee.String()),
		InviteeEmail: inviteeEmail,
		CanEdit:      canEdit,
		Status:       domain.ShareStatus(status),
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}, nil
}
