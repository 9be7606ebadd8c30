package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Export sends the whole library as a downloadable export document.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := codec.Export(d.Repository.List())
		if err != nil {
			d.Logger.Error("export failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "export failed")
			return
		}

		filename := codec.ExportFilename(d.Now())
		w.Header().Set("Content-Type", codec.MediaType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

// Import merges the export document in the request body into the library.
// A body that is not a JSON array is rejected and nothing changes.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, d.Logger, http.StatusRequestEntityTooLarge, "import document too large")
				return
			}
			writeError(w, d.Logger, http.StatusBadRequest, "failed to read import document")
			return
		}

		cands, err := codec.ParseImport(data)
		if err != nil {
			d.Logger.Info("import rejected", logger.Error(err))
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		res := d.Repository.ImportMerge(r.Context(), cands)
		writeJSON(w, d.Logger, http.StatusOK, importResponse{
			Imported: len(res.Imported),
			Skipped:  res.Skipped,
		})
	}
}
