// Package handler exposes the verification workflow over HTTP. Handlers stay
// thin: decode, call the workflow service, translate the result.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kyc-gateway/internal/domain"
	"kyc-gateway/internal/workflow"
	dErrors "kyc-gateway/pkg/domain-errors"
	"kyc-gateway/pkg/platform/httputil"
	"kyc-gateway/pkg/requestcontext"
)

// Service defines the workflow operations the HTTP layer depends on.
type Service interface {
	RegisterUser(ctx context.Context, email, phone string) (domain.User, error)
	Initiate(ctx context.Context) (domain.Application, error)
	UploadDocument(ctx context.Context, applicationID, declaredType, filename, fileRef string) (domain.Document, error)
	RunExtraction(ctx context.Context, applicationID string, documentIDs []string) (workflow.OCRStageResult, error)
	ConfirmAndVerify(ctx context.Context, applicationID string, corrections domain.Record) (workflow.VerifyOutcome, error)
	Status(ctx context.Context, applicationID string) (workflow.StatusReport, error)
}

// Handler wires workflow endpoints to the workflow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated workflow endpoints on the router.
// RegisterPublic mounts registration, which runs before a token exists.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/applications", h.HandleInitiate)
	r.Post("/kyc/applications/{applicationID}/documents", h.HandleUploadDocument)
	r.Post("/kyc/applications/{applicationID}/extract", h.HandleExtract)
	r.Post("/kyc/applications/{applicationID}/verify", h.HandleVerify)
	r.Get("/kyc/applications/{applicationID}", h.HandleStatus)
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/kyc/users", h.HandleRegisterUser)
}

// RegisterUserRequest is the body for POST /kyc/users.
type RegisterUserRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UserResponse is the wire shape for a registered user.
type UserResponse struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	Email     string `json:"email"`
	KYCStatus string `json:"kyc_status"`
}

func (h *Handler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[RegisterUserRequest](w, r, h.logger)
	if !ok {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.service.RegisterUser(ctx, req.Email, strings.TrimSpace(req.Phone))
	if err != nil {
		h.logger.WarnContext(ctx, "user registration failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, UserResponse{
		ID:        user.ID,
		MemberID:  user.MemberID,
		Email:     user.Email,
		KYCStatus: string(user.KYCStatus),
	})
}

// ApplicationResponse is the wire shape for an application.
type ApplicationResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	CurrentStage string `json:"current_stage"`
}

func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	app, err := h.service.Initiate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "application initiation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, ApplicationResponse{
		ID:           app.ID,
		UserID:       app.UserID,
		Status:       string(app.Status),
		CurrentStage: app.CurrentStage,
	})
}

// UploadDocumentRequest is the body for POST /kyc/applications/{id}/documents.
// FileRef points at already-uploaded object storage; this service never
// receives document bytes.
type UploadDocumentRequest struct {
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
	FileRef      string `json:"file_ref"`
}

// DocumentResponse is the wire shape for an accepted document.
type DocumentResponse struct {
	ID           string `json:"id"`
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
}

func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID := chi.URLParam(r, "applicationID")

	req, ok := httputil.Decode[UploadDocumentRequest](w, r, h.logger)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "filename is required"))
		return
	}

	doc, err := h.service.UploadDocument(ctx, applicationID, req.DocumentType, req.Filename, req.FileRef)
	if err != nil {
		h.logger.WarnContext(ctx, "document upload failed",
			"application_id", applicationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, DocumentResponse{
		ID:           doc.ID,
		DocumentType: string(doc.Type),
		Filename:     doc.Filename,
	})
}

// ExtractRequest is the body for POST /kyc/applications/{id}/extract. An
// empty document_ids list processes every uploaded document.
type ExtractRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID := chi.URLParam(r, "applicationID")

	req, ok := httputil.Decode[ExtractRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.RunExtraction(ctx, applicationID, req.DocumentIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "extraction run failed",
			"application_id", applicationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// VerifyRequest is the body for POST /kyc/applications/{id}/verify.
// ConfirmedData is the applicant's corrections over the extracted record.
type VerifyRequest struct {
	ConfirmedData domain.Record `json:"confirmed_data"`
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID := chi.URLParam(r, "applicationID")

	req, ok := httputil.Decode[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	outcome, err := h.service.ConfirmAndVerify(ctx, applicationID, req.ConfirmedData)
	if err != nil {
		h.logger.WarnContext(ctx, "verification run failed",
			"application_id", applicationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification completed",
		"application_id", applicationID,
		"status", outcome.Status,
		"decision", outcome.Decision,
	)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID := chi.URLParam(r, "applicationID")

	report, err := h.service.Status(ctx, applicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
