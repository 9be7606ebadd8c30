package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

// draftRequest is the body of create and update calls. An absent isFavorite
// means false on create and "unchanged" on update.
type draftRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	URL        string `json:"url"`
	IsFavorite *bool  `json:"isFavorite"`
}

func (req draftRequest) draft(favorite bool) domain.Draft {
	if req.IsFavorite != nil {
		favorite = *req.IsFavorite
	}
	return domain.Draft{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		URL:        req.URL,
		IsFavorite: favorite,
	}
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (draftRequest, error) {
	var req draftRequest
	body := http.MaxBytesReader(w, r.Body, maxDraftBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return req, errors.New("request body must be a JSON object")
	}
	return req, nil
}

func promptID(r *http.Request) domain.ID {
	return domain.ID(chi.URLParam(r, "id"))
}

// ListPrompts returns the prompts matching the q, category and favorites
// query parameters, newest first.
func ListPrompts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := domain.Filter{
			Query:    q.Get("q"),
			Category: strings.TrimSpace(q.Get("category")),
		}
		if raw := q.Get("favorites"); raw != "" {
			favorites, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, d.Logger, http.StatusBadRequest, "favorites must be a boolean")
				return
			}
			filter.FavoritesOnly = favorites
		}

		writeJSON(w, d.Logger, http.StatusOK, codec.Records(d.Repository.Search(filter)))
	}
}

func GetPrompt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.Repository.Get(promptID(r))
		if !ok {
			writeError(w, d.Logger, http.StatusNotFound, "prompt not found")
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, codec.FromPrompt(p))
	}
}

func CreatePrompt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeDraft(w, r)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		draft := req.draft(false).Normalize()
		if err := draft.Validate(); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		p := d.Repository.Add(r.Context(), draft)
		d.Logger.Info("prompt created", logger.String("id", p.ID.String()))
		writeJSON(w, d.Logger, http.StatusCreated, codec.FromPrompt(p))
	}
}

func UpdatePrompt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := promptID(r)
		current, ok := d.Repository.Get(id)
		if !ok {
			writeError(w, d.Logger, http.StatusNotFound, "prompt not found")
			return
		}

		req, err := decodeDraft(w, r)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		draft := req.draft(current.IsFavorite).Normalize()
		if err := draft.ValidateEdit(current); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		p, ok := d.Repository.Update(r.Context(), id, draft)
		if !ok {
			writeError(w, d.Logger, http.StatusNotFound, "prompt not found")
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, codec.FromPrompt(p))
	}
}

func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.Repository.ToggleFavorite(r.Context(), promptID(r))
		if !ok {
			writeError(w, d.Logger, http.StatusNotFound, "prompt not found")
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, codec.FromPrompt(p))
	}
}

// DeletePrompt answers 204 whether or not the prompt existed.
func DeletePrompt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := promptID(r)
		if d.Repository.Delete(r.Context(), id) {
			d.Logger.Info("prompt deleted", logger.String("id", id.String()))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
