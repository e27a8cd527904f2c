package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lifestyleblend/apiserver/internal/services"
	"github.com/lifestyleblend/apiserver/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const contextUserIDKey contextKey = "userID"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func userIDFromContext(ctx context.Context) (primitive.ObjectID, error) {
	id, ok := ctx.Value(contextUserIDKey).(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, errors.New("missing user id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps known service and store errors to their status
// codes; anything else becomes a generic 500.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusBadRequest, "username or email already taken")
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrCoverRequired),
		errors.Is(err, services.ErrInvalidCaptcha),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotAuthor):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
