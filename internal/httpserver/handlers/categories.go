package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
)

type categoryResponse struct {
	domain.Category
	Count int `json:"count"`
}

// Categories lists the registry in display order with the number of prompts
// filed under each entry. The "all" entry counts the whole library.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prompts := d.Repository.List()

		counts := make(map[string]int, len(prompts))
		for _, p := range prompts {
			counts[p.Category]++
		}

		cats := domain.Categories()
		out := make([]categoryResponse, 0, len(cats))
		for _, c := range cats {
			n := counts[c.ID]
			if c.ID == domain.AllCategoryID {
				n = len(prompts)
			}
			out = append(out, categoryResponse{Category: c, Count: n})
		}

		writeJSON(w, d.Logger, http.StatusOK, out)
	}
}
