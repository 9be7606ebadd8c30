package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

// Reload triggers a store sync and, when enabled, a snapshot.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		syncTriggered := trigger(d, d.SyncTrigger, "store sync", r)
		snapshotTriggered := false
		if d.SnapshotTrigger != nil {
			snapshotTriggered = trigger(d, d.SnapshotTrigger, "snapshot", r)
		}

		if syncTriggered || snapshotTriggered {
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		w.WriteHeader(http.StatusTooManyRequests)
		if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// trigger does a non-blocking send; a busy or missing worker counts as not triggered.
func trigger(d deps.Deps, ch chan struct{}, what string, r *http.Request) bool {
	select {
	case ch <- struct{}{}:
		d.Logger.Info("manual "+what+" triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		return true
	default:
		d.Logger.Warn(what+" already in progress",
			logger.String("remote_ip", r.RemoteAddr))
		return false
	}
}
