// Package stage persists pipeline stage transitions and reflects decisions
// into application and user status.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kyc-gateway/internal/audit"
	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/storage"
	dErrors "kyc-gateway/pkg/domain-errors"
	"kyc-gateway/pkg/platform/sentinel"
	"kyc-gateway/pkg/requestcontext"
)

// Tracker is the single writer of stage rows. One row exists per
// (application, stage name); re-invocations update it in place.
type Tracker struct {
	apps   storage.ApplicationStore
	stages storage.StageStore
	users  storage.UserStore
	audit  *audit.Publisher
	logger *slog.Logger
}

func NewTracker(apps storage.ApplicationStore, stages storage.StageStore, users storage.UserStore, auditPub *audit.Publisher, logger *slog.Logger) *Tracker {
	return &Tracker{
		apps:   apps,
		stages: stages,
		users:  users,
		audit:  auditPub,
		logger: logger,
	}
}

// Update writes one stage transition. Transition rules:
//   - in_progress sets started_at on the first write only and marks the
//     application processing, except for decision_made;
//   - completed and failed set completed_at;
//   - decision_made written as completed applies the decision from the result
//     payload to the application and mirrors the owning user's KYC status.
//
// Invalid names or statuses are rejected before anything is touched.
func (t *Tracker) Update(ctx context.Context, applicationID string, name domain.StageName, status domain.StageStatus, result map[string]any) (domain.Stage, error) {
	if !name.Valid() {
		return domain.Stage{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid stage name: %s", name))
	}
	if !status.Valid() {
		return domain.Stage{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid stage status: %s", status))
	}

	app, err := t.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Stage{}, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return domain.Stage{}, fmt.Errorf("load application: %w", err)
	}

	now := requestcontext.Now(ctx)

	stg, err := t.stages.Find(ctx, applicationID, name)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		stg = domain.NewStage(applicationID, name, status, now)
	case err != nil:
		return domain.Stage{}, fmt.Errorf("load stage: %w", err)
	}

	stg.Status = status
	if result != nil {
		stg.Result = result
	}
	if status == domain.StageInProgress && stg.StartedAt.IsZero() {
		stg.StartedAt = now
	}
	if status == domain.StageCompleted || status == domain.StageFailed {
		stg.CompletedAt = now
	}

	app.CurrentStage = string(name)
	app.UpdatedAt = now

	if name == domain.StageDecisionMade && status == domain.StageCompleted {
		if err := t.applyDecision(ctx, &app, result); err != nil {
			return domain.Stage{}, err
		}
	} else if status == domain.StageInProgress && name != domain.StageDecisionMade {
		app.Status = domain.ApplicationProcessing
	}

	if err := t.stages.Save(ctx, stg); err != nil {
		return domain.Stage{}, fmt.Errorf("save stage: %w", err)
	}
	if err := t.apps.Save(ctx, app); err != nil {
		return domain.Stage{}, fmt.Errorf("save application: %w", err)
	}

	t.logger.InfoContext(ctx, "stage updated",
		"application_id", applicationID,
		"stage", name,
		"status", status,
	)
	if t.audit != nil {
		_ = t.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionStageTransition,
			ApplicationID: applicationID,
			UserID:        app.UserID,
			Stage:         string(name),
			Status:        string(status),
			RequestID:     requestcontext.RequestID(ctx),
		})
	}
	return stg, nil
}

// applyDecision moves the application to its terminal status and mirrors the
// decision onto the owning user. This is the single place a user's KYC
// status follows an application outcome.
func (t *Tracker) applyDecision(ctx context.Context, app *domain.Application, result map[string]any) error {
	decision, _ := result["decision"].(string)
	reason, _ := result["decision_reason"].(string)

	var userStatus domain.KYCStatus
	switch domain.Decision(decision) {
	case domain.DecisionApproved:
		app.Status = domain.ApplicationCompleted
		app.Decision = domain.DecisionApproved
		userStatus = domain.KYCApproved
	case domain.DecisionRejected:
		app.Status = domain.ApplicationFailed
		app.Decision = domain.DecisionRejected
		userStatus = domain.KYCRejected
	case domain.DecisionManualReview:
		app.Status = domain.ApplicationFailed
		app.Decision = domain.DecisionManualReview
		userStatus = domain.KYCManualReview
	default:
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("decision_made completed without a known decision: %q", decision))
	}
	app.DecisionReason = reason

	user, err := t.users.FindByID(ctx, app.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Applications can outlive their user in test setups; the
			// application outcome still stands.
			t.logger.WarnContext(ctx, "decision applied but user not found",
				"application_id", app.ID,
				"user_id", app.UserID,
			)
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}
	user.KYCStatus = userStatus
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := t.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if t.audit != nil {
		_ = t.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionDecisionMade,
			ApplicationID: app.ID,
			UserID:        app.UserID,
			Decision:      decision,
			RequestID:     requestcontext.RequestID(ctx),
			Detail:        map[string]any{"reason": reason},
		})
	}
	return nil
}
