package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/store"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
	"github.com/dress2mydoor/dress2mydoor/pkg/gallery"
)

type seedRequest struct {
	Dresses []dress.Record `json:"dresses"`
}

type seedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (s *Server) handleListDresses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := s.repo.ListDresses(r.Context(), store.DressFilter{
		Type:   q.Get("type"),
		Size:   q.Get("size"),
		Colour: q.Get("colour"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetDress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Dress not found")
		return
	}
	record, err := s.repo.GetDress(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Dress not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleSeedDresses replaces the catalog. The source is, in order: the
// request's dresses, the configured gallery page, the built-in catalog.
func (s *Server) handleSeedDresses(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var records []dress.Record
	source := "payload"
	if len(req.Dresses) > 0 {
		records = normalizeSeed(req.Dresses)
	} else {
		source = "gallery"
		records = s.galleryRecords()
	}
	if len(records) == 0 {
		source = "defaults"
		records = dress.DefaultCatalog()
	}

	if err := dress.ValidateAll(records); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.repo.ReplaceDresses(r.Context(), records); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.catalogSize.Set(float64(len(records)))
	logger.Info("dresses seeded", "count", len(records), "source", source)
	writeJSON(w, http.StatusOK, seedResponse{Message: "Dresses seeded successfully", Count: len(records)})
}

// normalizeSeed fills missing fields of posted dresses. Posted ids are kept
// unless two dresses share one, in which case the whole set is renumbered
// in posted order.
func normalizeSeed(in []dress.Record) []dress.Record {
	out := make([]dress.Record, len(in))
	seen := make(map[int]bool, len(in))
	duplicate := false
	for i, d := range in {
		n := dress.Record{
			ID:     d.ID,
			Name:   d.Name,
			Price:  d.Price,
			Type:   dress.SanitizeType(string(d.Type)),
			Sizes:  d.Sizes,
			Colour: d.Colour,
			Image:  d.Image,
		}
		if n.ID <= 0 {
			n.ID = i + 1
		}
		if n.Name == "" {
			n.Name = fmt.Sprintf("Dress %d", i+1)
		}
		if n.Price < 0 {
			n.Price = 0
		}
		if n.Sizes == nil {
			n.Sizes = dress.DefaultSizes()
		}
		if n.Colour == "" {
			n.Colour = "unknown"
		}
		if seen[n.ID] {
			duplicate = true
		}
		seen[n.ID] = true
		out[i] = n
	}

	if duplicate {
		logger.Warn("seed payload has duplicate dress ids, renumbering", "count", len(out))
		for i := range out {
			out[i].ID = i + 1
		}
	}
	return out
}

// galleryRecords extracts the configured gallery page, keeping only dresses
// with an image and numbering them 1..N.
func (s *Server) galleryRecords() []dress.Record {
	if s.cfg.GalleryPage == "" {
		return nil
	}
	f, err := os.Open(s.cfg.GalleryPage)
	if err != nil {
		logger.Warn("could not read gallery page for seed data, falling back to defaults", "path", s.cfg.GalleryPage, "error", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	extracted, err := gallery.ExtractReader(f)
	if err != nil {
		logger.Warn("could not parse gallery page for seed data, falling back to defaults", "path", s.cfg.GalleryPage, "error", err)
		return nil
	}

	records := make([]dress.Record, 0, len(extracted))
	for _, r := range extracted {
		if !r.HasImage() {
			continue
		}
		r.ID = len(records) + 1
		records = append(records, r)
	}
	return records
}
