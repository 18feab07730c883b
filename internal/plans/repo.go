package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanExists   = errors.New("plan already exists")
	// ErrStaleWrite means the plan changed since the version the write was based on.
	ErrStaleWrite = errors.New("plan was modified concurrently")
)

// Repo stores plans as JSONB documents, one row per plan.
// The id, version and creation time live in their own columns and win over the document.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func encodePlan(plan training.Plan) ([]byte, error) {
	plan.ID = ""
	plan.Version = 0
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return data, nil
}

func decodePlan(id string, version int, createdAt time.Time, data []byte) (*training.Plan, error) {
	var plan training.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan %s: %w", id, err)
	}
	plan.ID = id
	plan.Version = version
	plan.CreatedAt = createdAt.UTC()
	plan.ApplyDefaults()
	return &plan, nil
}

// Create inserts a new plan at version 1. The plan must carry its id.
func (r *Repo) Create(ctx context.Context, owner training.Owner, plan training.Plan) (_ *training.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", plan.ID))

	data, err := encodePlan(plan)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO plan (app_id, user_id, id, version, data, created_at, updated_at)
			VALUES ($1, $2, $3, 1, $4, $5, $6);`,
		owner.AppID, owner.UserID, plan.ID, data, plan.CreatedAt, now,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrPlanExists
		}
		return nil, err
	}

	plan.Version = 1
	return &plan, nil
}

// Update replaces the whole document if the stored version still equals plan.Version,
// and bumps the version in the same statement.
func (r *Repo) Update(ctx context.Context, owner training.Owner, plan training.Plan) (_ *training.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("plan.id", plan.ID),
		attribute.Int("plan.version", plan.Version),
	)

	data, err := encodePlan(plan)
	if err != nil {
		return nil, err
	}

	var (
		version   int
		createdAt time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`UPDATE plan SET data = $1, version = version + 1, updated_at = $2
			WHERE app_id = $3 AND user_id = $4 AND id = $5 AND version = $6
			RETURNING version, created_at;`,
		data, time.Now(), owner.AppID, owner.UserID, plan.ID, plan.Version,
	).Scan(&version, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.Get(ctx, owner, plan.ID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: %s at version %d", ErrStaleWrite, plan.ID, plan.Version)
	}
	if err != nil {
		return nil, err
	}

	plan.Version = version
	plan.CreatedAt = createdAt.UTC()
	return &plan, nil
}

func (r *Repo) Delete(ctx context.Context, owner training.Owner, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM plan WHERE app_id = $1 AND user_id = $2 AND id = $3;`,
		owner.AppID, owner.UserID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, owner training.Owner, id string) (_ *training.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", id))

	var (
		version   int
		createdAt time.Time
		data      []byte
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT version, created_at, data FROM plan
			WHERE app_id = $1 AND user_id = $2 AND id = $3;`,
		owner.AppID, owner.UserID, id,
	).Scan(&version, &createdAt, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return decodePlan(id, version, createdAt, data)
}

// List returns all plans of the owner, oldest first.
func (r *Repo) List(ctx context.Context, owner training.Owner) (_ []training.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, version, created_at, data FROM plan
			WHERE app_id = $1 AND user_id = $2
			ORDER BY created_at, id;`,
		owner.AppID, owner.UserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]training.Plan, 0)
	for rows.Next() {
		var (
			id        string
			version   int
			createdAt time.Time
			data      []byte
		)
		if err := rows.Scan(&id, &version, &createdAt, &data); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		plan, err := decodePlan(id, version, createdAt, data)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("plans.count", len(plans)))
	return plans, nil
}
