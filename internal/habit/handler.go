package habit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/d-medvedev/habits-api/internal/config"
)

// PageSize is the fixed number of habits per list page.
const PageSize = 5

type Handler struct {
	service HabitService
}

func NewHandler(service HabitService) *Handler {
	return &Handler{service: service}
}

type pageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	result, err := h.service.ListOwn(r.Context(), (page-1)*PageSize, PageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, paginate(r, page, result.Count, result.Habits))
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	result, err := h.service.ListPublic(r.Context(), (page-1)*PageSize, PageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results := make([]PublicHabitResponse, 0, len(result.Habits))
	for i := range result.Habits {
		results = append(results, toPublicResponse(&result.Habits[i]))
	}
	config.JSON(w, http.StatusOK, paginate(r, page, result.Count, results))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateHabitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if dto.Action == "" {
		config.JSON(w, http.StatusBadRequest, map[string]string{"detail": "action is required"})
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	habit, err := h.service.Retrieve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, habit)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateHabitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service errors onto the HTTP taxonomy: 401 for missing
// credentials, 403 with a reason for denied actors, 404 for unknown ids and
// 400 with the full violation list for invalid habits.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := config.WithContext(r.Context())

	var vErr *ValidationError
	var fErr *ForbiddenError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		config.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "authentication required"})
	case errors.As(err, &fErr):
		config.JSON(w, http.StatusForbidden, map[string]string{"detail": fErr.Reason})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		config.JSON(w, http.StatusNotFound, map[string]string{"detail": "habit not found"})
	case errors.As(err, &vErr):
		config.JSON(w, http.StatusBadRequest, map[string]interface{}{"violations": vErr.Violations})
	default:
		log.WithError(err).Error("Unhandled habit service error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func paginate(r *http.Request, page int, count int64, results interface{}) pageResponse {
	resp := pageResponse{Count: count, Results: results}
	if int64(page*PageSize) < count {
		resp.Next = pageURL(r, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(r, page-1)
	}
	return resp
}

func pageURL(r *http.Request, page int) *string {
	u := url.URL{
		Scheme:   scheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: fmt.Sprintf("page=%d", page),
	}
	s := u.String()
	return &s
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}
