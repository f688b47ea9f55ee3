// Package submissions exposes the evaluation service over HTTP
package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/services/evaluation"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/handlers"
	"gitlab.com/codearena.net/internal/handlers/response"
	"gitlab.com/codearena.net/internal/static/errs"
)

const maxRequestBody = 1 << 20

type Handler struct {
	service evaluation.IEvaluationService
	logger  primary.Logger
}

func NewHandler(service evaluation.IEvaluationService, logger primary.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the public routes on router and the rest behind auth.
// Reference-solution verification additionally needs the admin permission.
func (h *Handler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.HandleFunc("/api/languages", h.Languages).Methods(http.MethodGet)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(mw.JWTMiddleware)
	protected.HandleFunc("/submissions/run/{problemId}", h.Run).Methods(http.MethodPost)
	protected.HandleFunc("/submissions/submit/{problemId}", h.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/submissions/by-id/{id}", h.GetSubmission).Methods(http.MethodGet)
	protected.HandleFunc("/submissions/{problemId}", h.ListSubmissions).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/solved", h.ListSolved).Methods(http.MethodGet)
	protected.Handle("/problems/verify", mw.RequirePermission(domain.PermissionAdmin)(http.HandlerFunc(h.Verify))).
		Methods(http.MethodPost)
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Run(r.Context(), evaluation.RunRequest{
		UserID:      handlers.UserIDFromContext(r.Context()),
		ProblemID:   mux.Vars(r)["problemId"],
		Code:        req.Code,
		Language:    req.Language,
		CustomInput: req.CustomInput,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, result)
}

// Submit answers 201 once the verdict is stored and 202 when it could not be
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !h.decode(w, r, &req) {
		return
	}

	submission, err := h.service.Submit(r.Context(), evaluation.SubmitRequest{
		UserID:    handlers.UserIDFromContext(r.Context()),
		ProblemID: mux.Vars(r)["problemId"],
		Code:      req.Code,
		Language:  req.Language,
	})

	switch {
	case err == nil:
		handlers.ResponseWithJson(w, http.StatusCreated, SubmissionResponse{Submission: submission, Persisted: true})
	case submission != nil && errors.Is(err, errs.ErrUnsupportedLanguage):
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
			Status:     domain.SubmissionStatusLanguageError,
		})
	case submission != nil && errors.Is(err, errs.ErrPersistence):
		h.logger.Warn("Returning verdict that was not persisted", "submissionId", submission.ID, "error", err)
		handlers.ResponseWithJson(w, http.StatusAccepted, SubmissionResponse{Submission: submission, Persisted: false})
	default:
		h.writeError(w, err)
	}
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Verify(r.Context(), evaluation.VerifyRequest{
		Code:      req.Code,
		Language:  req.Language,
		TestCases: req.TestCases,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, result)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSubmissions(r.Context(), handlers.UserIDFromContext(r.Context()), mux.Vars(r)["problemId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, list)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed submission id", errs.ErrInvalidRequest))
		return
	}

	submission, err := h.service.GetSubmission(r.Context(), handlers.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, submission)
}

func (h *Handler) ListSolved(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListSolved(r.Context(), handlers.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, SolvedResponse{ProblemIDs: ids})
}

func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, LanguagesResponse{Languages: h.service.Languages()})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst); err != nil {
		h.logger.Debug("Failed to decode request", "path", r.URL.Path, "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    "invalid request body",
			StatusCode: http.StatusBadRequest,
		})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	msg := response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusInternalServerError}

	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		msg.StatusCode = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnsupportedLanguage):
		msg.StatusCode = http.StatusBadRequest
		msg.Status = domain.SubmissionStatusLanguageError
	case errors.Is(err, errs.ErrProblemNotFound), errors.Is(err, errs.ErrSubmissionNotFound):
		msg.StatusCode = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		msg.StatusCode = http.StatusRequestTimeout
	case errs.IsServiceError(err):
		msg.StatusCode = http.StatusBadGateway
		msg.Status = domain.SubmissionStatusServiceError
	default:
		h.logger.Error("Request failed", "error", err)
		msg.Message = "internal error"
	}
	response.WriteError(w, msg)
}
