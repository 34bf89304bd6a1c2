package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 12
	// retryAfterSeconds is what clients are told to wait on a busy game.
	retryAfterSeconds = 1
)

type gameManager interface {
	StartGame(ctx context.Context) (*usecase.Seat, error)
	JoinGame(ctx context.Context, gameID string) (*usecase.Seat, error)
	GetState(ctx context.Context, gameID, token string) (*entity.View, error)
	Fire(ctx context.Context, gameID, token, coord string) (*usecase.FireResult, error)
	DeleteGame(ctx context.Context, gameID, token string) error
}

type handlers struct {
	logger *slog.Logger
	games  gameManager
}

type fireRequest struct {
	Token string `json:"token"`
	Coord string `json:"coord"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ctxKey struct{}

func newHandlers(logger *slog.Logger, games gameManager) *handlers {
	return &handlers{
		logger: logger.With("component", "rest handlers"),
		games:  games,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Debug("failed to write pong", "error", err)
	}
}

func (that *handlers) startGame(w http.ResponseWriter, r *http.Request) {
	seat, err := that.games.StartGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusCreated, seat)
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	seat, err := that.games.JoinGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, seat)
}

func (that *handlers) getState(w http.ResponseWriter, r *http.Request) {
	state, err := that.games.GetState(r.Context(), r.PathValue("id"), tokenFrom(r))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, state)
}

func (that *handlers) fire(w http.ResponseWriter, r *http.Request) {
	var req fireRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		that.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Token == "" {
		req.Token = tokenFrom(r)
	}

	result, err := that.games.Fire(r.Context(), r.PathValue("id"), req.Token, req.Coord)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, result)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), r.PathValue("id"), tokenFrom(r)); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// withRequestID - tags every request with an id, taken from the client when it sends one.
func (that *handlers) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	log := that.logger.With("request_id", requestID(r), "method", r.Method, "path", r.URL.Path)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		message = "internal server error"
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}

	that.writeJSON(w, r, status, errorResponse{Error: message})
}

func (that *handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "request_id", requestID(r), "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFull),
		errors.Is(err, apperror.ErrAlreadyFinished),
		errors.Is(err, apperror.ErrGameNotInProgress),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrGameBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// tokenFrom - the bearer token, falling back to the token query parameter.
func tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	return r.URL.Query().Get("token")
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}
