package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrRecordNotFound = errors.New("personal record not found")

// Repo stores personal records as JSONB documents.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// encodePatch keeps only the fields that carry a value, so that merging it
// into a stored document leaves the other fields untouched.
func encodePatch(record training.PersonalRecord) ([]byte, error) {
	patch := map[string]string{}
	for key, value := range map[string]string{
		"name":     record.Name,
		"category": string(record.Category),
		"value":    record.Value,
		"unit":     string(record.Unit),
		"date":     record.Date,
	} {
		if value != "" {
			patch[key] = value
		}
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal record patch: %w", err)
	}
	return data, nil
}

func decodeRecord(id string, data []byte) (*training.PersonalRecord, error) {
	var record training.PersonalRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	record.ID = id
	return &record, nil
}

func (r *Repo) Create(ctx context.Context, owner training.Owner, record training.PersonalRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", record.ID))

	id := record.ID
	record.ID = ""
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	now := time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO personal_record (app_id, user_id, id, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5);`,
		owner.AppID, owner.UserID, id, data, now,
	)
	return err
}

// Merge writes the non-empty fields of record over the stored document,
// creating the document when it does not exist yet. It returns the merged result.
func (r *Repo) Merge(ctx context.Context, owner training.Owner, record training.PersonalRecord) (_ *training.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.merge")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", record.ID))

	patch, err := encodePatch(record)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var data []byte
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO personal_record (app_id, user_id, id, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (app_id, user_id, id)
			DO UPDATE SET data = personal_record.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at
			RETURNING data;`,
		owner.AppID, owner.UserID, record.ID, patch, now,
	).Scan(&data)
	if err != nil {
		return nil, err
	}

	return decodeRecord(record.ID, data)
}

func (r *Repo) Delete(ctx context.Context, owner training.Owner, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("record.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM personal_record WHERE app_id = $1 AND user_id = $2 AND id = $3;`,
		owner.AppID, owner.UserID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// List returns the owner's records, oldest first.
func (r *Repo) List(ctx context.Context, owner training.Owner) (_ []training.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, data FROM personal_record
			WHERE app_id = $1 AND user_id = $2
			ORDER BY created_at, id;`,
		owner.AppID, owner.UserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]training.PersonalRecord, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		record, err := decodeRecord(id, data)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}
