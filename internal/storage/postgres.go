package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kyc-gateway/internal/domain"
	"kyc-gateway/pkg/platform/sentinel"
)

// PostgresApplicationStore persists applications in a single table with the
// identity records held as JSONB columns.
type PostgresApplicationStore struct {
	db *sql.DB
}

func NewPostgresApplicationStore(db *sql.DB) *PostgresApplicationStore {
	return &PostgresApplicationStore{db: db}
}

func (s *PostgresApplicationStore) Save(ctx context.Context, app domain.Application) error {
	extracted, err := json.Marshal(app.Extracted)
	if err != nil {
		return fmt.Errorf("marshal extracted record: %w", err)
	}
	passport, err := json.Marshal(app.PassportData)
	if err != nil {
		return fmt.Errorf("marshal passport snapshot: %w", err)
	}
	visa, err := json.Marshal(app.VisaData)
	if err != nil {
		return fmt.Errorf("marshal visa snapshot: %w", err)
	}
	idCard, err := json.Marshal(app.IDCardData)
	if err != nil {
		return fmt.Errorf("marshal id card snapshot: %w", err)
	}

	query := `
		INSERT INTO kyc_applications (
			id, user_id, status, current_stage, decision, decision_reason,
			extracted_data, passport_data, visa_data, id_card_data,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			current_stage = EXCLUDED.current_stage,
			decision = EXCLUDED.decision,
			decision_reason = EXCLUDED.decision_reason,
			extracted_data = EXCLUDED.extracted_data,
			passport_data = EXCLUDED.passport_data,
			visa_data = EXCLUDED.visa_data,
			id_card_data = EXCLUDED.id_card_data,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		app.ID, app.UserID, string(app.Status), app.CurrentStage,
		string(app.Decision), app.DecisionReason,
		extracted, passport, visa, idCard,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

func (s *PostgresApplicationStore) FindByID(ctx context.Context, id string) (domain.Application, error) {
	query := `
		SELECT id, user_id, status, current_stage, decision, decision_reason,
		       extracted_data, passport_data, visa_data, id_card_data,
		       created_at, updated_at
		FROM kyc_applications
		WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresApplicationStore) FindActiveByUser(ctx context.Context, userID string) (domain.Application, error) {
	query := `
		SELECT id, user_id, status, current_stage, decision, decision_reason,
		       extracted_data, passport_data, visa_data, id_card_data,
		       created_at, updated_at
		FROM kyc_applications
		WHERE user_id = $1 AND status NOT IN ('completed', 'failed')
		ORDER BY created_at DESC
		LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, userID))
}

func (s *PostgresApplicationStore) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	query := `
		SELECT id, user_id, status, current_stage, decision, decision_reason,
		       extracted_data, passport_data, visa_data, id_card_data,
		       created_at, updated_at
		FROM kyc_applications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		app, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresApplicationStore) scanOne(row rowScanner) (domain.Application, error) {
	var (
		app                             domain.Application
		status, decision                string
		extracted, passport, visa, card []byte
	)
	err := row.Scan(
		&app.ID, &app.UserID, &status, &app.CurrentStage, &decision,
		&app.DecisionReason, &extracted, &passport, &visa, &card,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Application{}, fmt.Errorf("scan application: %w", err)
	}
	app.Status = domain.ApplicationStatus(status)
	app.Decision = domain.Decision(decision)
	for _, col := range []struct {
		raw  []byte
		dest *domain.Record
	}{
		{extracted, &app.Extracted},
		{passport, &app.PassportData},
		{visa, &app.VisaData},
		{card, &app.IDCardData},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return domain.Application{}, fmt.Errorf("unmarshal record column: %w", err)
		}
	}
	return app, nil
}

// PostgresStageStore persists pipeline stages, one row per (application,
// stage name), upserted in place.
type PostgresStageStore struct {
	db *sql.DB
}

func NewPostgresStageStore(db *sql.DB) *PostgresStageStore {
	return &PostgresStageStore{db: db}
}

func (s *PostgresStageStore) Save(ctx context.Context, stage domain.Stage) error {
	result, err := json.Marshal(stage.Result)
	if err != nil {
		return fmt.Errorf("marshal stage result: %w", err)
	}

	query := `
		INSERT INTO kyc_stages (
			id, application_id, stage_name, status, result,
			started_at, completed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (application_id, stage_name) DO UPDATE SET
			status = EXCLUDED.status,
			result = EXCLUDED.result,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at`

	_, err = s.db.ExecContext(ctx, query,
		stage.ID, stage.ApplicationID, string(stage.Name), string(stage.Status),
		result, nullTime(stage.StartedAt), nullTime(stage.CompletedAt), stage.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stage: %w", err)
	}
	return nil
}

func (s *PostgresStageStore) Find(ctx context.Context, applicationID string, name domain.StageName) (domain.Stage, error) {
	query := `
		SELECT id, application_id, stage_name, status, result,
		       started_at, completed_at, created_at
		FROM kyc_stages
		WHERE application_id = $1 AND stage_name = $2`
	return scanStage(s.db.QueryRowContext(ctx, query, applicationID, string(name)))
}

func (s *PostgresStageStore) ListByApplication(ctx context.Context, applicationID string) ([]domain.Stage, error) {
	query := `
		SELECT id, application_id, stage_name, status, result,
		       started_at, completed_at, created_at
		FROM kyc_stages
		WHERE application_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var out []domain.Stage
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stage)
	}
	return out, rows.Err()
}

func scanStage(row rowScanner) (domain.Stage, error) {
	var (
		stage                  domain.Stage
		name, status           string
		result                 []byte
		startedAt, completedAt sql.NullTime
	)
	err := row.Scan(
		&stage.ID, &stage.ApplicationID, &name, &status, &result,
		&startedAt, &completedAt, &stage.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stage{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Stage{}, fmt.Errorf("scan stage: %w", err)
	}
	stage.Name = domain.StageName(name)
	stage.Status = domain.StageStatus(status)
	if len(result) > 0 {
		if err := json.Unmarshal(result, &stage.Result); err != nil {
			return domain.Stage{}, fmt.Errorf("unmarshal stage result: %w", err)
		}
	}
	if startedAt.Valid {
		stage.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		stage.CompletedAt = completedAt.Time
	}
	return stage, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
