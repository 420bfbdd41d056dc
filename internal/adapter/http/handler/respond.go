package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	listingdomain "github.com/pariskandee/real-estate/internal/listing/domain"
	"github.com/pariskandee/real-estate/internal/listing/usecase"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	userdomain "github.com/pariskandee/real-estate/internal/user/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps domain and usecase errors onto the JSON error taxonomy.
// Unrecognized errors surface as a generic server error; the detail stays
// in the logs, never in the response.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var verr *listingdomain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
	case errors.Is(err, usecase.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized - No token provided"})
	case errors.Is(err, usecase.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Access denied"})
	case errors.Is(err, listingdomain.ErrListingNotFound):
		writeMessage(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, userdomain.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, userdomain.ErrInvalidRole):
		writeMessage(w, http.StatusBadRequest, "Invalid role")
	default:
		log.Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}
