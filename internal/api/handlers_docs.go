package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/docfold/docfold/internal/docmodel"
)

// documentSummary is the list-view shape of one document; Raw is served only
// by the single-document and stream endpoints.
type documentSummary struct {
	Index     int      `json:"index"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	Blank     bool     `json:"blank"`
	WordCount int      `json:"word_count"`
}

func summarizeDocument(d *docmodel.Document) documentSummary {
	return documentSummary{
		Index:     d.Index,
		Title:     d.Title,
		Tags:      d.Tags,
		Blank:     d.Blank,
		WordCount: d.WordCount,
	}
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"collections": s.orchestrator.Store().List(),
	})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	coll := s.orchestrator.Store().Get(chi.URLParam(r, "collID"))
	if coll == nil {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coll.Summarize())
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	coll := s.orchestrator.Store().Get(chi.URLParam(r, "collID"))
	if coll == nil {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}

	skipBlank := r.URL.Query().Get("skip_blank") == "true"
	docs := make([]documentSummary, 0, len(coll.Documents))
	for _, d := range coll.Documents {
		if skipBlank && d.Blank {
			continue
		}
		docs = append(docs, summarizeDocument(d))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"collection_id": coll.ID,
		"documents":     docs,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	coll := s.orchestrator.Store().Get(chi.URLParam(r, "collID"))
	if coll == nil {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	if index < 0 || index >= len(coll.Documents) {
		jsonError(w, "document index out of range", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(coll.Documents[index])
}

// handleGetStream serves the refolded stream, byte-identical to the ingested
// source plus any appended documents.
func (s *Server) handleGetStream(w http.ResponseWriter, r *http.Request) {
	coll := s.orchestrator.Store().Get(chi.URLParam(r, "collID"))
	if coll == nil {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(coll.Refold()))
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	collID := chi.URLParam(r, "collID")
	deleted := s.orchestrator.Store().Delete(collID)
	if !deleted {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}

	archiveDeleted := false
	if ac := s.orchestrator.Archive(); ac != nil {
		if err := ac.DeleteCollection(r.Context(), collID); err != nil {
			s.log.Warn("archive delete failed", "collection_id", collID, "error", err)
		} else {
			archiveDeleted = true
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"deleted":         true,
		"archive_deleted": archiveDeleted,
	})
}
