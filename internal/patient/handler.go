package patient

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medhub/clinic-frontdesk/internal/httputil"
	"github.com/medhub/clinic-frontdesk/internal/logging"
)

// Handler contains HTTP handlers for patient endpoints. All routes require an
// authenticated session; the middleware runs before any handler here.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PatientRequest represents the create/update request body
type PatientRequest struct {
	ID          string `json:"id"`
	CardNumber  string `json:"card_number"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	PhoneNumber string `json:"phone_number"`
	CNIC        string `json:"cnic"`
	Comments    string `json:"comments"`
}

// List handles listing and searching patients
// @Summary      List patients
// @Description  List all patients, or filter with the q parameter (matches id, name, card number, phone, CNIC).
// @Tags         patients
// @Produce      json
// @Param        q query string false "Search query"
// @Success      200 {array} Patient
// @Failure      401 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /api/patients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	patients, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		logger.Error("failed to list patients", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list patients", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, patients, http.StatusOK)
}

// Get handles fetching one patient by card identifier
// @Summary      Get patient
// @Description  Fetch a patient by the identifier printed on their card.
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} Patient
// @Failure      404 {object} httputil.ErrorResponse "Patient not found"
// @Router       /api/patients/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "patient not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get patient", "patient_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get patient", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// GetByCard handles resolving a scanned card number to a patient
// @Summary      Resolve card number
// @Description  Resolve a scanned card number to a patient record. The code is treated as opaque text.
// @Tags         patients
// @Produce      json
// @Param        cardNumber path string true "Card number"
// @Success      200 {object} Patient
// @Failure      404 {object} httputil.ErrorResponse "No patient with that card"
// @Router       /api/patients/card/{cardNumber} [get]
func (h *Handler) GetByCard(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	cardNumber := chi.URLParam(r, "cardNumber")

	p, err := h.service.GetByCard(r.Context(), cardNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "patient not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to resolve card number", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to resolve card number", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Create handles registering a new patient
// @Summary      Create patient
// @Description  Register a new patient record.
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        request body PatientRequest true "Patient details"
// @Success      201 {object} Patient
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Patient ID already exists"
// @Router       /api/patients [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), &Patient{
		ID:          req.ID,
		CardNumber:  req.CardNumber,
		Name:        req.Name,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
		CNIC:        req.CNIC,
		Comments:    req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateID):
			httputil.RespondErrorWithCode(w, "patient id already exists", httputil.CodeValidationFailed, http.StatusConflict)
		case errors.Is(err, ErrIDRequired), errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidAge):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("failed to create patient", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create patient", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update handles editing a patient record
// @Summary      Update patient
// @Description  Overwrite the mutable fields of a patient record.
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID"
// @Param        request body PatientRequest true "Patient details"
// @Success      200 {object} Patient
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse "Patient not found"
// @Router       /api/patients/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	// The path parameter is authoritative for which record is edited
	req.ID = chi.URLParam(r, "id")

	updated, err := h.service.Update(r.Context(), &Patient{
		ID:          req.ID,
		CardNumber:  req.CardNumber,
		Name:        req.Name,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
		CNIC:        req.CNIC,
		Comments:    req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondErrorWithCode(w, "patient not found", httputil.CodeNotFound, http.StatusNotFound)
		case errors.Is(err, ErrIDRequired), errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidAge):
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("failed to update patient", "patient_id", req.ID, "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to update patient", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles removing a patient record
// @Summary      Delete patient
// @Description  Remove a patient record. Irreversible.
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Patient not found"
// @Router       /api/patients/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "patient not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete patient", "patient_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete patient", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "patient deleted"}, http.StatusOK)
}
