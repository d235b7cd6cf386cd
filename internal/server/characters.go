package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

const (
	routeList       = "GET /api/characters"
	routeEvents     = "GET /api/characters/events"
	routeGet        = "GET /api/characters/{id}"
	routeFavorite   = "PUT /api/characters/{id}/favorite"
	routeUnfavorite = "DELETE /api/characters/{id}/favorite"
)

// Catalog is the part of the character repository the API serves.
type Catalog interface {
	GetCharacter(ctx context.Context, id string) (models.Result[models.MarvelCharacter], bool)
	GetSavedCharacter(ctx context.Context, id string) models.Result[models.MarvelCharacter]
	GetCharacterByIDFromWeb(ctx context.Context, id string) models.Result[models.MarvelCharacter]
	FindSavedCharacters(ctx context.Context, prefix string, limit int) models.Result[[]models.MarvelCharacter]
	SaveCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter]
	DeleteCharacterByID(ctx context.Context, id string) models.Result[string]
	ObserveSavedCharacters(ctx context.Context) <-chan models.Result[[]models.MarvelCharacter]
}

// CharacterResponse is the body of GET /api/characters/{id} and the favorite routes.
type CharacterResponse struct {
	Character models.MarvelCharacter `json:"character"`
	Saved     bool                   `json:"saved"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

var _ Handler = (*CharacterHandler)(nil)

// CharacterHandler serves the character API.
type CharacterHandler struct {
	catalog Catalog
	logger  *log.Logger
}

// NewCharacterHandler creates a CharacterHandler. A nil logger discards output.
func NewCharacterHandler(catalog Catalog, logger *log.Logger) *CharacterHandler {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &CharacterHandler{catalog: catalog, logger: shared.WithLogger(logger, "component", "api")}
}

// Routes implements [Handler].
func (h *CharacterHandler) Routes() []string {
	return []string{routeList, routeEvents, routeGet, routeFavorite, routeUnfavorite}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *CharacterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case routeList:
		h.list(w, r)
	case routeEvents:
		h.events(w, r)
	case routeGet:
		h.get(w, r)
	case routeFavorite:
		h.favorite(w, r)
	case routeUnfavorite:
		h.unfavorite(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CharacterHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, fmt.Errorf("%w: limit must be a non-negative integer", shared.ErrInvalidInput))
			return
		}
		limit = n
	}

	res := h.catalog.FindSavedCharacters(r.Context(), q.Get("name"), limit)
	if !res.Succeeded() {
		writeError(w, res.Err())
		return
	}
	writeJSON(w, http.StatusOK, res.Value())
}

func (h *CharacterHandler) get(w http.ResponseWriter, r *http.Request) {
	res, saved := h.catalog.GetCharacter(r.Context(), r.PathValue("id"))
	if !res.Succeeded() {
		writeError(w, res.Err())
		return
	}
	writeJSON(w, http.StatusOK, CharacterResponse{Character: res.Value(), Saved: saved})
}

// favorite saves the character, fetching it from the web unless it is already saved.
// Responds 201 when newly saved and 200 when it already was.
func (h *CharacterHandler) favorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if existing := h.catalog.GetSavedCharacter(ctx, id); existing.Succeeded() {
		writeJSON(w, http.StatusOK, CharacterResponse{Character: existing.Value(), Saved: true})
		return
	} else if !errors.Is(existing.Err(), shared.ErrNotFound) {
		writeError(w, existing.Err())
		return
	}

	fetched := h.catalog.GetCharacterByIDFromWeb(ctx, id)
	if !fetched.Succeeded() {
		writeError(w, fetched.Err())
		return
	}

	saved := h.catalog.SaveCharacter(ctx, fetched.Value())
	if !saved.Succeeded() {
		writeError(w, saved.Err())
		return
	}

	h.logger.Info("favorited", "id", id, "request_id", RequestID(ctx))
	writeJSON(w, http.StatusCreated, CharacterResponse{Character: saved.Value(), Saved: true})
}

func (h *CharacterHandler) unfavorite(w http.ResponseWriter, r *http.Request) {
	res := h.catalog.DeleteCharacterByID(r.Context(), r.PathValue("id"))
	if !res.Succeeded() {
		writeError(w, res.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// events streams the saved list as Server-Sent Events until the client goes away.
func (h *CharacterHandler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("%w: streaming unsupported", shared.ErrNotImplemented))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for res := range h.catalog.ObserveSavedCharacters(r.Context()) {
		var (
			event string
			body  any
		)
		if res.Succeeded() {
			event, body = "characters", res.Value()
		} else {
			event, body = "error", ErrorResponse{Error: res.Err().Error(), Kind: shared.ErrorKind(res.Err())}
		}

		data, err := shared.MarshalJSON(body, false)
		if err != nil {
			h.logger.Error("failed to encode event", "err", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch shared.ErrorKind(err) {
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindInvalid:
		return http.StatusBadRequest
	case shared.KindNetwork:
		return http.StatusBadGateway
	case shared.KindUnavailable:
		return http.StatusServiceUnavailable
	case shared.KindCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := shared.ErrorKind(err)
	if kind == shared.KindUnknown && errors.Is(err, shared.ErrNotImplemented) {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	writeJSON(w, StatusFor(err), ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// NewAPI wires the character API with request id, logging and recovery middleware.
func NewAPI(catalog Catalog, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(WithRequestID(), WithLogging(logger), WithRecover(logger))
	r.Handler(NewCharacterHandler(catalog, logger))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	return r
}
