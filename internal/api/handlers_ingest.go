package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docfold/docfold/internal/article"
	"github.com/docfold/docfold/internal/parser"
	"github.com/docfold/docfold/internal/pipeline"
)

// handleCreateCollection accepts a folded stream upload and queues an
// asynchronous unfold job.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with extra headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("stream")
	if err != nil {
		jsonError(w, "stream file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read stream", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("stream exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	filename := sanitizeFilename(header.Filename)
	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	separator := r.FormValue("separator")
	if separator == "" {
		separator = s.cfg.Separator
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:           pipeline.NewID(),
		CollectionID: pipeline.NewID(),
		Name:         name,
		Filename:     filename,
		Status:       pipeline.StatusQueued,
		Phase:        "queued",
		Separator:    separator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	job.SetStreamData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":        job.ID,
		"collection_id": job.CollectionID,
		"status":        job.Status,
		"poll_url":      fmt.Sprintf("/api/unfold/%s/status", job.ID),
	})
}

func (s *Server) handleUnfoldStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":        snap.ID,
		"collection_id": snap.CollectionID,
		"status":        snap.Status,
		"phase":         snap.Phase,
		"progress":      snap.Progress,
	})
}

// handleAppendDocument parses an uploaded file into Markdown and appends it
// to an existing collection as one document span.
func (s *Server) handleAppendDocument(w http.ResponseWriter, r *http.Request) {
	collID := chi.URLParam(r, "collID")
	if s.orchestrator.Store().Get(collID) == nil {
		jsonError(w, "collection not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	limited := io.LimitReader(file, s.cfg.MaxUploadBytes+1)
	md, err := p.Parse(limited, filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(md) == "" {
		jsonError(w, "file has no extractable content", http.StatusUnprocessableEntity)
		return
	}

	doc := article.Extract(0, md)
	coll, err := s.orchestrator.Store().Append(collID, doc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	// Mirror to the archive best-effort; the stored collection is the
	// source of truth.
	if ac := s.orchestrator.Archive(); ac != nil {
		if err := ac.PutDocument(r.Context(), collID, doc); err != nil {
			s.log.Warn("archive append failed", "collection_id", collID, "index", doc.Index, "error", err)
		} else if err := ac.PutMeta(r.Context(), coll.Summarize()); err != nil {
			s.log.Warn("archive meta update failed", "collection_id", collID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"collection_id":  collID,
		"index":          doc.Index,
		"title":          doc.Title,
		"tags":           doc.Tags,
		"word_count":     doc.WordCount,
		"document_count": len(coll.Documents),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
