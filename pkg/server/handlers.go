package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/magnetgrid/pkg/buildinfo"
	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/compact"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/interact"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/pipeline"
	"github.com/matzehuels/magnetgrid/pkg/store"
)

type layoutRequest struct {
	Layout document.Layout `json:"layout"`
}

type layoutResponse struct {
	Layout document.Layout `json:"layout"`
}

type planRequest struct {
	Layout document.Layout `json:"layout"`
	Field  string          `json:"field"`
	Width  float64         `json:"width,omitempty"`
	Row    int             `json:"row"`
}

type validateResponse struct {
	Valid       bool        `json:"valid"`
	Overlapping [][2]string `json:"overlapping"`
	Problem     string      `json:"problem,omitempty"`
}

type addFieldRequest struct {
	ID    string  `json:"id,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type addFieldResponse struct {
	Field  document.Field  `json:"field"`
	Layout document.Layout `json:"layout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// layoutStore returns the store for the request's tenant.
func (s *Server) layoutStore(r *http.Request) (*store.LayoutStore, error) {
	if s.tenantHeader == "" {
		return s.runner.Store, nil
	}
	tenant := r.Header.Get(s.tenantHeader)
	if tenant == "" {
		return s.runner.Store, nil
	}
	if err := errors.ValidateLayoutKey(tenant); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tenant header %s", s.tenantHeader)
	}
	keyer := cache.NewScopedKeyer(s.runner.Keyer, "tenant:"+tenant+":")
	return store.New(s.runner.Cache,
		store.WithKeyer(keyer),
		store.WithGridConfig(s.runner.Grid),
		store.WithLogger(s.logger)), nil
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	st, err := s.layoutStore(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := st.Load(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: grid.Export(l, key)})
}

// handlePutLayout stores a layout. The body is snapped onto the grid and
// rejected when fields overlap. ?normalize=true compacts it first.
func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateLayoutKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.parseLayout(req.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("normalize") == "true" {
		l = compact.New(s.runner.Grid, compact.WithLogger(s.logger)).Normalize(l)
	}
	if pairs := collision.Overlapping(s.runner.Grid, l); len(pairs) > 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidLayout, "fields %q and %q overlap", pairs[0][0], pairs[0][1]))
		return
	}

	st, err := s.layoutStore(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := st.Save(r.Context(), key, l); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: grid.Export(l, key)})
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	st, err := s.layoutStore(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := st.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddField places a new field in the stored layout. An empty id gets
// a generated one.
func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateLayoutKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addFieldRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.layoutStore(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	current, err := st.Load(ctx, key)
	if errors.Is(err, errors.ErrCodeNotFound) {
		current = grid.Layout{}
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := interact.New(s.runner.Grid, current,
		interact.WithKey(key),
		interact.WithLogger(s.logger),
		interact.WithContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := o.AddField(req.ID, req.Width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o.Settle()

	l := o.Layout()
	if err := st.Save(ctx, key, l); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addFieldResponse{
		Field:  document.Field{ID: p.ID, Width: p.Width, X: p.Position.X, Y: p.Position.Y},
		Layout: grid.Export(l, key),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.parseLayout(req.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Plan(r.Context(), pipeline.PlanRequest{
		Layout: l,
		Field:  req.Field,
		Width:  req.Width,
		Row:    req.Row,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.parseLayout(req.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := compact.New(s.runner.Grid, compact.WithLogger(s.logger)).Normalize(l)
	writeJSON(w, http.StatusOK, layoutResponse{Layout: grid.Export(out, req.Layout.Key)})
}

// handleValidate checks a layout as given, without snapping it first.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := grid.Parse(req.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg := s.runner.Grid
	resp := validateResponse{Overlapping: collision.Overlapping(cfg, l)}
	if resp.Overlapping == nil {
		resp.Overlapping = [][2]string{}
	}
	if err := cfg.Check(l); err != nil {
		resp.Problem = errors.UserMessage(err)
	}
	resp.Valid = len(resp.Overlapping) == 0 && resp.Problem == ""
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) parseLayout(doc document.Layout) (grid.Layout, error) {
	l, err := grid.Parse(doc)
	if err != nil {
		return nil, err
	}
	return s.runner.Grid.Sanitize(l), nil
}
