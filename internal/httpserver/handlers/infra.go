package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	PromptsLoaded *int   `json:"prompts_loaded,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Repository.Count()
		lastReload := d.Repository.LastLoad()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"library": {
				OK:            true,
				PromptsLoaded: &count,
				LastReload:    lastReloadStr,
			},
			"store": checkStore(r, d),
			"snapshots": {
				OK:   true,
				Mode: snapshotMode(d),
			},
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	// Store down: edits live in memory only until it comes back
	if store, exists := components["store"]; exists && !store.OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(r *http.Request, d deps.Deps) componentStatus {
	if err := pingStore(r.Context(), d); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreType,
			Impact: "changes-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   d.StoreType,
		Impact: "none",
	}
}

func snapshotMode(d deps.Deps) string {
	if d.SnapshotTrigger == nil {
		return "disabled"
	}
	return "enabled"
}
