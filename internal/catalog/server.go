package catalog

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"listkit/internal/infra/logx"
)

// NewHandler serves src over the JSON contract HTTPSource speaks. A non-empty
// token is required as a bearer token on every route but /healthz. Writes
// answer 405 unless src is also a Mutator.
func NewHandler(src Source, token string) http.Handler {
	h := &handler{src: src, token: token}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /entries", h.auth(h.list))
	mux.HandleFunc("POST /entries", h.auth(h.create))
	mux.HandleFunc("DELETE /entries/{id}", h.auth(h.delete))
	return mux
}

type handler struct {
	src   Source
	token string
}

func (h *handler) auth(next http.HandlerFunc) http.HandlerFunc {
	if h.token == "" {
		return next
	}
	want := []byte("Bearer " + h.token)
	return func(w http.ResponseWriter, r *http.Request) {
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), want) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 0)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	perPage, err := intParam(q.Get("per_page"), DefaultPerPage)
	if err != nil || perPage <= 0 {
		writeError(w, http.StatusBadRequest, "invalid per_page")
		return
	}
	pq := PageQuery{Page: page, PerPage: perPage, Query: q.Get("q")}.Normalize()
	entries, err := h.src.Page(r.Context(), pq)
	if err != nil {
		logx.Errorf("serve: list page=%d q=%q: %v", pq.Page, pq.Query, err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	logx.Debugf("serve: list page=%d per_page=%d q=%q -> %d", pq.Page, pq.PerPage, pq.Query, len(entries))
	writeJSON(w, http.StatusOK, pageResp{Entries: entries, Page: pq.Page})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	m, ok := h.src.(Mutator)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, ErrReadOnly.Error())
		return
	}
	var req createReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is empty")
		return
	}
	e, err := m.Create(r.Context(), req.Title)
	if err != nil {
		logx.Errorf("serve: create: %v", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, entryResp{Entry: e})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.src.(Mutator)
	if !ok {
		writeError(w, http.StatusMethodNotAllowed, ErrReadOnly.Error())
		return
	}
	err := m.Delete(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		logx.Errorf("serve: delete %s: %v", r.PathValue("id"), err)
		writeError(w, http.StatusInternalServerError, "delete failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Warnf("serve: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}
