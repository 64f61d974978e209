package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/grantline/grantline/pkg/pipeline"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/source"
	"github.com/grantline/grantline/pkg/view"
	"github.com/grantline/grantline/pkg/viewport"
)

// maxUploadBytes bounds dataset uploads. Rosters are small; anything
// near this size is not a proposal export.
const maxUploadBytes = 32 << 20

// datasetSummary describes the loaded dataset without its full contents.
type datasetSummary struct {
	ID        string                 `json:"id"`
	Hash      string                 `json:"hash"`
	Proposals int                    `json:"proposals"`
	PIs       int                    `json:"pis"`
	Pin       string                 `json:"pin,omitempty"`
	Viewport  viewport.State         `json:"viewport"`
	Rejected  []proposal.RejectedRow `json:"rejected,omitempty"`
}

// statusFor maps view and pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, view.ErrStaleLoad):
		return http.StatusConflict
	case errors.Is(err, view.ErrNoDataset):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrUnknownPI):
		return http.StatusNotFound
	case errors.Is(err, proposal.ErrDatasetEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// handleLoadDataset replaces the current dataset from an uploaded CSV
// or JSON body. The load token is taken before the body is read, so an
// upload that raced a newer one is rejected with 409 rather than
// silently winning.
func (s *Server) handleLoadDataset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	token := s.view.BeginLoad()
	s.mu.Unlock()

	rows, err := readRows(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err = s.view.Apply(r.Context(), view.DatasetLoaded{Token: token, Rows: rows})
	if err != nil {
		s.mu.Unlock()
		writeError(w, statusFor(err), err)
		return
	}
	summary, err := s.summarizeLocked()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.logger.Info("dataset loaded",
		"rows", len(rows),
		"proposals", summary.Proposals,
		"rejected", len(summary.Rejected),
	)
	writeJSON(w, http.StatusOK, summary)
}

// handleDatasetSummary reports the loaded dataset's identity and counts.
func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary, err := s.summarizeLocked()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// summarizeLocked builds the dataset summary. Callers hold s.mu.
func (s *Server) summarizeLocked() (datasetSummary, error) {
	ds, err := s.view.Dataset()
	if err != nil {
		return datasetSummary{}, err
	}
	stats, err := s.view.PIs()
	if err != nil {
		return datasetSummary{}, err
	}
	return datasetSummary{
		ID:        s.view.DatasetID(),
		Hash:      s.view.DatasetHash(),
		Proposals: len(ds.Proposals),
		PIs:       len(stats),
		Pin:       s.view.Pin(),
		Viewport:  s.view.Viewport(),
		Rejected:  ds.Rejected,
	}, nil
}

// handleProjection derives a projection. Query parameters pin, k, pan,
// and width override the stored filter and viewport for this request
// only; a present-but-empty pin asks for the unfiltered sequence.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query view.Query
	if q.Has("pin") {
		pin := q.Get("pin")
		query.Pin = &pin
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"k", &query.Zoom},
		{"pan", &query.Pan},
		{"width", &query.PixelWidth},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid %s %q", p.name, v))
			return
		}
		*p.dst = &f
	}

	s.mu.Lock()
	proj, err := s.view.ProjectionWith(r.Context(), query)
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

// handleFilter pins the sequence to one PI, or clears the pin when the
// body carries an empty name.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pin string `json:"pin"`
	}
	if err := decodeJSONBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err := s.view.Apply(r.Context(), view.FilterChanged{Pin: body.Pin})
	pin := s.view.Pin()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"pin": pin})
}

// handleViewport stores a new zoom and pan. Out-of-range zoom is
// clamped, matching direct manipulation semantics, so the response
// echoes the state actually stored.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var body viewport.State
	if err := decodeJSONBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err := s.view.Apply(r.Context(), view.ViewportChanged{State: body})
	vp := s.view.Viewport()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, vp)
}

// handleViewportReset restores unit zoom and zero pan.
func (s *Server) handleViewportReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.view.Apply(r.Context(), view.ViewportReset{})
	vp := s.view.Viewport()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, vp)
}

// handlePIs lists the roster with proposal and collaboration counts.
func (s *Server) handlePIs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats, err := s.view.PIs()
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handlePartners lists one PI's collaborators, strongest first.
func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	partners, err := s.view.Partners(name)
	s.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

// readRows extracts raw rows from an upload: either a multipart form
// with a "file" part or a raw CSV/JSON body.
func readRows(r *http.Request) ([]proposal.Row, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file part: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return source.Parse(data, hdr.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return source.Parse(data, mediaType)
}

// decodeJSONBody reads one JSON object and rejects trailing content.
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected trailing content in request body")
	}
	return nil
}
