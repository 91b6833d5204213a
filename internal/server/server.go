// Package server exposes a processed batch as a small local map viewer:
// parcel summaries and GeoJSON over HTTP plus a Leaflet page.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Egidiu/cadastral-cli/internal/model"
	"github.com/Egidiu/cadastral-cli/internal/pipeline"
)

// Parcel is one record reassembled from exported rows. Ref is the
// server-local handle used in URLs; cadastral numbers alone are not
// unique across UATs.
type Parcel struct {
	Ref             string         `json:"ref"`
	County          string         `json:"county"`
	UAT             string         `json:"uat"`
	CadastralNumber int64          `json:"cadastral_number"`
	Central         model.Vertex   `json:"central"`
	Vertices        []model.Vertex `json:"vertices"`
}

// GroupRows reassembles parcels from the flat exported table, keyed by
// (county, UAT, cadastral number), keeping first-seen order and
// per-parcel vertex order.
func GroupRows(rows []model.VertexRow) []Parcel {
	index := make(map[string]int)
	var parcels []Parcel

	for _, row := range rows {
		key := row.County + "|" + row.UAT + "|" + strconv.FormatInt(row.CadastralNumber, 10)
		i, ok := index[key]
		if !ok {
			i = len(parcels)
			index[key] = i
			parcels = append(parcels, Parcel{
				Ref:             strconv.Itoa(i),
				County:          row.County,
				UAT:             row.UAT,
				CadastralNumber: row.CadastralNumber,
				Central:         model.Vertex{Lat: row.CentralLat, Lon: row.CentralLon},
			})
		}
		parcels[i].Vertices = append(parcels[i].Vertices, model.Vertex{Lat: row.Lat, Lon: row.Lon})
	}

	return parcels
}

// Server serves one loaded result set. The data is immutable once the
// server starts; re-run process and restart to refresh.
type Server struct {
	parcels []Parcel
	byRef   map[string]*Parcel
}

// New creates a Server over exported rows.
func New(rows []model.VertexRow) *Server {
	parcels := GroupRows(rows)
	s := &Server{
		parcels: parcels,
		byRef:   make(map[string]*Parcel, len(parcels)),
	}
	for i := range parcels {
		s.byRef[parcels[i].Ref] = &s.parcels[i]
	}
	return s
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/parcels", s.handleList)
	r.Get("/api/parcels/{ref}", s.handleParcel)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(viewerHTML)) //nolint:errcheck
	})

	return r
}

// parcelSummary is the list view of one parcel.
type parcelSummary struct {
	Ref             string  `json:"ref"`
	County          string  `json:"county"`
	UAT             string  `json:"uat"`
	CadastralNumber int64   `json:"cadastral_number"`
	CentralLat      float64 `json:"central_lat"`
	CentralLon      float64 `json:"central_lon"`
	VertexCount     int     `json:"vertex_count"`
	CentralMapsLink string  `json:"maps_link_central"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	summaries := make([]parcelSummary, 0, len(s.parcels))
	for _, p := range s.parcels {
		summaries = append(summaries, parcelSummary{
			Ref:             p.Ref,
			County:          p.County,
			UAT:             p.UAT,
			CadastralNumber: p.CadastralNumber,
			CentralLat:      p.Central.Lat,
			CentralLon:      p.Central.Lon,
			VertexCount:     len(p.Vertices),
			CentralMapsLink: pipeline.MapsLink(p.Central.Lat, p.Central.Lon),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleParcel(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	parcel, ok := s.byRef[ref]
	if !ok {
		http.Error(w, `{"error":"no such parcel"}`, http.StatusNotFound)
		return
	}

	feature, err := parcelFeature(parcel)
	if err != nil {
		zap.L().Error("building parcel feature", zap.String("ref", ref), zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, feature)
}

// parcelFeature renders a parcel as a GeoJSON Feature with a closed
// single-ring polygon in (lon, lat) order.
func parcelFeature(p *Parcel) (*geojson.Feature, error) {
	flat := make([]float64, 0, (len(p.Vertices)+1)*2)
	for _, v := range p.Vertices {
		flat = append(flat, v.Lon, v.Lat)
	}
	if len(p.Vertices) > 0 && p.Vertices[0] != p.Vertices[len(p.Vertices)-1] {
		flat = append(flat, p.Vertices[0].Lon, p.Vertices[0].Lat)
	}

	polygon := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})

	return &geojson.Feature{
		ID:       p.Ref,
		Geometry: polygon,
		Properties: map[string]any{
			"county":            p.County,
			"uat":               p.UAT,
			"cadastral_number":  p.CadastralNumber,
			"central_lat":       p.Central.Lat,
			"central_lon":       p.Central.Lon,
			"maps_link_central": pipeline.MapsLink(p.Central.Lat, p.Central.Lon),
		},
	}, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("map viewer listening", zap.String("addr", addr), zap.Int("parcels", len(s.parcels)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})

	return g.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encoding response", zap.Error(err))
	}
}
