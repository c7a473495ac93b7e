package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// ContactHandler serves the storefront's historical contact endpoint.
// It answers with a bare {ok, ...} JSON body instead of the standard
// envelope because deployed storefront clients parse that exact shape.
type ContactHandler struct {
	leadService *app.LeadService
}

func NewContactHandler(leadService *app.LeadService) *ContactHandler {
	return &ContactHandler{leadService: leadService}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input domain.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeContactJSON(w, http.StatusBadRequest, map[string]interface{}{
			"ok":    false,
			"error": "Invalid request body",
		})
		return
	}

	_, err := h.leadService.SubmitContact(input, submissionMeta(r), clientKey(r))
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			status := appErr.StatusCode
			// The historical contract promises 400 for any field problem.
			if appErr.Code == "VALIDATION_ERROR" {
				status = http.StatusBadRequest
			}
			body := map[string]interface{}{
				"ok":    false,
				"error": appErr.Message,
			}
			if len(appErr.Details) > 0 {
				body["details"] = appErr.Details
			}
			writeContactJSON(w, status, body)
			return
		}
		writeContactJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": "Something went wrong, please try again",
		})
		return
	}

	writeContactJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"success": true,
		"message": "Thanks, we will be in touch shortly",
	})
}

func writeContactJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
