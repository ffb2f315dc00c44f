/*
handlers.go - HTTP API handlers for the incapacity management system

PURPOSE:
  Exposes the incapacity engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Incapacities:
    POST   /api/incapacities                    Register incapacity
    GET    /api/incapacities/{id}               Get record
    PUT    /api/incapacities/{id}               Partial update
    DELETE /api/incapacities/{id}               Administrative purge
    POST   /api/incapacities/{id}/transition    Set lifecycle status
    GET    /api/incapacities/pending-review     Records awaiting HR
    GET    /api/incapacities/status/{status}    Records by status
    GET    /api/incapacities/user/{userID}      Records by employee

  Companies:
    GET    /api/companies                       List companies
    POST   /api/companies                       Register company
    GET    /api/companies/{id}                  Get company
    GET    /api/companies/{id}/employees        Company roster
    POST   /api/companies/{id}/employees        Add employee
    GET    /api/companies/{id}/report           Download report (pdf/csv/xlsx)
    POST   /api/companies/{id}/report/send      Email one company's report

  Reports / email:
    POST   /api/reports/send-all                Email every company's report
    POST   /api/email                           Free-form email send

REQUEST FLOW:
  1. Decode and tag-validate the body
  2. Call domain logic (engine, reporter, mailer)
  3. Serialize response
  4. Map domain errors to HTTP status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record or company not found
  - 422: Nothing to report (empty roster or empty period)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Automated monthly report dispatch
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
	"github.com/sigi/incapacity-engine/report"
	"github.com/sigi/incapacity-engine/stats"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Persistence is everything the handlers need from storage beyond the
// engine: the company directory plus its write side. Both store/sqlite
// and store/memory satisfy it.
type Persistence interface {
	incapacity.Store
	dispatch.Directory
	FindEmployee(ctx context.Context, id string) (*dispatch.Employee, error)
	SaveCompany(ctx context.Context, c dispatch.Company) error
	SaveEmployee(ctx context.Context, e dispatch.Employee) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *incapacity.Engine
	Store    Persistence
	Reporter *dispatch.Reporter
	Mailer   mail.Mailer

	validate *validator.Validate
	log      *zap.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(engine *incapacity.Engine, store Persistence, reporter *dispatch.Reporter, mailer mail.Mailer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Engine:   engine,
		Store:    store,
		Reporter: reporter,
		Mailer:   mailer,
		validate: validator.New(),
		log:      log,
	}
}

// =============================================================================
// INCAPACITY HANDLERS
// =============================================================================

// CreateIncapacity registers a new incapacity in REGISTERED state.
func (h *Handler) CreateIncapacity(w http.ResponseWriter, r *http.Request) {
	var req CreateIncapacityRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)
	amount, err := parseAmount(req.RequestedAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid requested_amount", err)
		return
	}

	rec, err := h.Engine.Create(r.Context(), incapacity.CreateInput{
		SubjectID:       req.SubjectID,
		PeriodStart:     start,
		PeriodEnd:       end,
		Reason:          req.Reason,
		RequestedAmount: amount,
		DocumentURL:     req.DocumentURL,
		Notes:           req.Notes,
	})
	if err != nil {
		h.domainError(w, err, "Failed to register incapacity")
		return
	}

	h.notify(*rec, func(e dispatch.Employee) mail.Message {
		return mail.RegistrationNotice(e.Email, e.Name, *rec)
	})

	writeJSON(w, http.StatusCreated, toIncapacityDTO(*rec))
}

// GetIncapacity returns a single record.
func (h *Handler) GetIncapacity(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Engine.Get(r.Context(), incapacity.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.domainError(w, err, "Failed to get incapacity")
		return
	}
	writeJSON(w, http.StatusOK, toIncapacityDTO(*rec))
}

// UpdateIncapacity applies a partial update.
func (h *Handler) UpdateIncapacity(w http.ResponseWriter, r *http.Request) {
	var req UpdateIncapacityRequest
	if !h.decode(w, r, &req) {
		return
	}

	patch, err := buildPatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid update", err)
		return
	}

	rec, err := h.Engine.Update(r.Context(), incapacity.ID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.domainError(w, err, "Failed to update incapacity")
		return
	}
	writeJSON(w, http.StatusOK, toIncapacityDTO(*rec))
}

// TransitionIncapacity sets the record's lifecycle status.
func (h *Handler) TransitionIncapacity(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := incapacity.ID(chi.URLParam(r, "id"))
	prev, err := h.Engine.Get(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to transition incapacity")
		return
	}

	rec, err := h.Engine.Transition(r.Context(), id,
		incapacity.Status(req.Status), req.Notes)
	if err != nil {
		h.domainError(w, err, "Failed to transition incapacity")
		return
	}

	if prev.Status != rec.Status {
		h.notify(*rec, func(e dispatch.Employee) mail.Message {
			return mail.StatusChangeNotice(e.Email, e.Name, *rec, prev.Status)
		})
	}

	writeJSON(w, http.StatusOK, toIncapacityDTO(*rec))
}

// DeleteIncapacity removes a record.
func (h *Handler) DeleteIncapacity(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Delete(r.Context(), incapacity.ID(chi.URLParam(r, "id"))); err != nil {
		h.domainError(w, err, "Failed to delete incapacity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPendingReview returns records awaiting or under HR review.
func (h *Handler) ListPendingReview(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.ListPendingReview(r.Context())
	if err != nil {
		h.domainError(w, err, "Failed to list pending incapacities")
		return
	}
	writeJSON(w, http.StatusOK, toIncapacityDTOs(records))
}

// ListByStatus returns records in the given status.
func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.ListByStatus(r.Context(), incapacity.Status(chi.URLParam(r, "status")))
	if err != nil {
		h.domainError(w, err, "Failed to list incapacities")
		return
	}
	writeJSON(w, http.StatusOK, toIncapacityDTOs(records))
}

// ListBySubject returns all records of one employee.
func (h *Handler) ListBySubject(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.ListBySubject(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.domainError(w, err, "Failed to list incapacities")
		return
	}
	writeJSON(w, http.StatusOK, toIncapacityDTOs(records))
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListCompanies returns all registered companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}

	dtos := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		dtos[i] = toCompanyDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCompany registers a company.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !h.decode(w, r, &req) {
		return
	}

	company := dispatch.Company{ID: req.ID, Name: req.Name, Email: req.Email}
	if company.ID == "" {
		company.ID = uuid.NewString()
	}

	if err := h.Store.SaveCompany(r.Context(), company); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create company", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyDTO(company))
}

// GetCompany returns a single company.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.FindCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(*company))
}

// ListCompanyEmployees returns the roster of one company.
func (h *Handler) ListCompanyEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListCompanyEmployees(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee adds an employee to a company's roster.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")

	company, err := h.Store.FindCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}

	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	employee := dispatch.Employee{
		ID:        req.ID,
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
	}
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}

	if err := h.Store.SaveEmployee(r.Context(), employee); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(employee))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// DownloadReport renders one company's report in the requested format
// and streams it back.
// GET /api/companies/{id}/report?from=2025-01-01&to=2025-01-31&format=pdf
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report range", err)
		return
	}

	company, err := h.Store.FindCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}

	data, err := h.Reporter.BuildCompanyReport(r.Context(), *company, rng)
	if err != nil {
		h.domainError(w, err, "Failed to build report")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var (
		body        []byte
		contentType string
		filename    string
	)
	switch format {
	case "pdf":
		body, err = report.RenderPDF(data)
		contentType = "application/pdf"
		filename = "incapacity-report.pdf"
	case "csv":
		var csv string
		csv, err = report.RenderCSV(data)
		body = []byte(csv)
		contentType = "text/csv"
		filename = "incapacity-report.csv"
	case "xlsx":
		body, err = report.RenderXLSX(data)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "incapacity-report.xlsx"
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown format %q (use pdf, csv, or xlsx)", format), nil)
		return
	}
	if err != nil {
		h.domainError(w, err, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// SendCompanyReport emails one company's report for the range.
// POST /api/companies/{id}/report/send
func (h *Handler) SendCompanyReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRangeRequest
	if !h.decode(w, r, &req) {
		return
	}
	rng, err := parseRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report range", err)
		return
	}

	result, err := h.Reporter.SendCompanyReport(r.Context(), chi.URLParam(r, "id"), rng)
	if err != nil {
		h.domainError(w, err, "Failed to send report")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SendAllReports emails every company's report for the range.
// POST /api/reports/send-all
func (h *Handler) SendAllReports(w http.ResponseWriter, r *http.Request) {
	var req ReportRangeRequest
	if !h.decode(w, r, &req) {
		return
	}
	rng, err := parseRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report range", err)
		return
	}

	batch, err := h.Reporter.SendAllReports(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send reports", err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// SendEmail sends a free-form email.
// POST /api/email
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.Mailer.Send(r.Context(), mail.Message{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses and tag-validates a JSON body. On failure it writes the
// error response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// notify sends a lifecycle notice to the record's employee in the
// background. Notices are best-effort: an unknown employee or a send
// failure is logged, never surfaced to the request.
func (h *Handler) notify(rec incapacity.Record, build func(dispatch.Employee) mail.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		employee, err := h.Store.FindEmployee(ctx, rec.SubjectID)
		if err != nil || employee == nil || employee.Email == "" {
			if err != nil {
				h.log.Warn("notification lookup failed",
					zap.String("subject_id", rec.SubjectID), zap.Error(err))
			}
			return
		}
		if err := h.Mailer.Send(ctx, build(*employee)); err != nil {
			h.log.Warn("notification send failed",
				zap.String("subject_id", rec.SubjectID), zap.Error(err))
		}
	}()
}

// domainError maps engine and dispatch errors to HTTP status codes.
func (h *Handler) domainError(w http.ResponseWriter, err error, message string) {
	switch {
	case incapacity.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case incapacity.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, dispatch.ErrNoEmployees), errors.Is(err, dispatch.ErrNoIncapacities):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		h.log.Error("request failed", zap.String("message", message), zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// buildPatch converts the wire-level partial update into an engine patch.
func buildPatch(req UpdateIncapacityRequest) (incapacity.Patch, error) {
	var patch incapacity.Patch

	if req.PeriodStart != nil {
		t, err := time.Parse("2006-01-02", *req.PeriodStart)
		if err != nil {
			return patch, fmt.Errorf("period_start: %w", err)
		}
		patch.PeriodStart = &t
	}
	if req.PeriodEnd != nil {
		t, err := time.Parse("2006-01-02", *req.PeriodEnd)
		if err != nil {
			return patch, fmt.Errorf("period_end: %w", err)
		}
		patch.PeriodEnd = &t
	}
	if req.RequestedAmount != nil {
		amount, err := parseAmount(*req.RequestedAmount)
		if err != nil {
			return patch, fmt.Errorf("requested_amount: %w", err)
		}
		patch.RequestedAmount = &amount
	}
	if req.Status != nil {
		status := incapacity.Status(*req.Status)
		patch.Status = &status
	}
	patch.Reason = req.Reason
	patch.DocumentURL = req.DocumentURL
	patch.Notes = req.Notes

	return patch, nil
}

// parseRange parses inclusive from/to dates; the To bound is pushed to the
// end of its day so records starting anywhere on the last day count. The
// range is optional: both dates absent means no filter (nil), but a single
// bound on its own is rejected.
func parseRange(from, to string) (*stats.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("from and to must be given together")
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("to %s is before from %s", to, from)
	}
	return &stats.DateRange{
		From: start,
		To:   end.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
