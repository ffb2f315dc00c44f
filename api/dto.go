/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validate struct tags (go-playground/validator) and
  are checked in handlers before any domain call. Semantic rules (period
  ordering, amount sign, status membership) stay in the engine; the tags
  only gate shape and presence.

SEE ALSO:
  - handlers.go: Uses these types
  - incapacity/engine.go: Domain validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
)

// =============================================================================
// INCAPACITY TYPES
// =============================================================================

// IncapacityDTO represents an incapacity record in API responses.
type IncapacityDTO struct {
	ID              string `json:"id"`
	SubjectID       string `json:"subject_id"`
	RegisteredAt    string `json:"registered_at"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	DurationDays    int    `json:"duration_days"`
	Reason          string `json:"reason"`
	RequestedAmount string `json:"requested_amount"`
	DocumentURL     string `json:"document_url,omitempty"`
	Status          string `json:"status"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toIncapacityDTO(rec incapacity.Record) IncapacityDTO {
	return IncapacityDTO{
		ID:              string(rec.ID),
		SubjectID:       rec.SubjectID,
		RegisteredAt:    rec.RegisteredAt.Format(time.RFC3339),
		PeriodStart:     rec.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       rec.PeriodEnd.Format("2006-01-02"),
		DurationDays:    rec.DurationDays(),
		Reason:          rec.Reason,
		RequestedAmount: rec.RequestedAmount.String(),
		DocumentURL:     rec.DocumentURL,
		Status:          string(rec.Status),
		Notes:           rec.Notes,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
}

func toIncapacityDTOs(records []incapacity.Record) []IncapacityDTO {
	dtos := make([]IncapacityDTO, len(records))
	for i, rec := range records {
		dtos[i] = toIncapacityDTO(rec)
	}
	return dtos
}

// CreateIncapacityRequest is the request to register an incapacity.
// Any supplied status is ignored: new records always start as REGISTERED.
type CreateIncapacityRequest struct {
	SubjectID       string `json:"subject_id" validate:"required"`
	PeriodStart     string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd       string `json:"period_end" validate:"required,datetime=2006-01-02"`
	Reason          string `json:"reason" validate:"required"`
	RequestedAmount string `json:"requested_amount,omitempty"`
	DocumentURL     string `json:"document_url,omitempty" validate:"omitempty,url"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateIncapacityRequest is a partial update. Absent fields are left
// untouched.
type UpdateIncapacityRequest struct {
	PeriodStart     *string `json:"period_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd       *string `json:"period_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reason          *string `json:"reason,omitempty"`
	RequestedAmount *string `json:"requested_amount,omitempty"`
	DocumentURL     *string `json:"document_url,omitempty" validate:"omitempty,url"`
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// TransitionRequest sets the record's status.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

// =============================================================================
// COMPANY / EMPLOYEE TYPES
// =============================================================================

// CompanyDTO represents a company in API responses.
type CompanyDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toCompanyDTO(c dispatch.Company) CompanyDTO {
	return CompanyDTO{ID: c.ID, Name: c.Name, Email: c.Email}
}

// CreateCompanyRequest is the request to register a company.
type CreateCompanyRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func toEmployeeDTO(e dispatch.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, CompanyID: e.CompanyID, Name: e.Name, Email: e.Email}
}

// CreateEmployeeRequest is the request to add an employee to a company's
// roster.
type CreateEmployeeRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// =============================================================================
// REPORT / EMAIL TYPES
// =============================================================================

// ReportRangeRequest selects the report period, inclusive on both ends.
// The range is optional: when both bounds are absent the report covers
// every incapacity on record.
type ReportRangeRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SendEmailRequest is a free-form email send, used by HR for one-off
// notifications.
type SendEmailRequest struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// parseAmount parses an optional decimal string, defaulting to zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
