// Package server exposes the nearest-events report over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/thomhuang/EarthquakesByDistance/internal/geo"
	"github.com/thomhuang/EarthquakesByDistance/internal/report"
)

// maxK caps the k query parameter.
const maxK = 1000

// Fetcher returns the current feed points.
type Fetcher interface {
	Fetch(ctx context.Context) ([]geo.LabeledPoint, error)
}

// Ranker computes the report for a reference location.
type Ranker interface {
	RunTop(raw []geo.LabeledPoint, ref geo.GeoPoint, k int) geo.RankedResult
	K() int
}

// Response is the body of a successful /api/nearest call.
type Response struct {
	Reference geo.GeoPoint   `json:"reference"`
	Count     int            `json:"count"`
	Results   []report.Entry `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the API.
type Handler struct {
	feed   Fetcher
	ranker Ranker
	logger *slog.Logger
}

// New returns the router for the API.
func New(feed Fetcher, ranker Ranker, logger *slog.Logger) http.Handler {
	h := &Handler{feed: feed, ranker: ranker, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/nearest", h.nearest)
	return r
}

func (h *Handler) nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing latitude or longitude"})
		return
	}

	lat, err := geo.ParseDegrees(latStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid latitude"})
		return
	}
	lon, err := geo.ParseDegrees(lonStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid longitude"})
		return
	}

	k := h.ranker.K()
	if kStr := q.Get("k"); kStr != "" {
		k, err = strconv.Atoi(kStr)
		if err != nil || k < 0 || k > maxK {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "k must be an integer between 0 and " + strconv.Itoa(maxK)})
			return
		}
	}

	points, err := h.feed.Fetch(r.Context())
	if err != nil {
		h.logger.Error("feed fetch failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "earthquake feed unavailable"})
		return
	}

	ref := geo.GeoPoint{Lon: lon, Lat: lat}
	result := h.ranker.RunTop(points, ref, k)
	writeJSON(w, http.StatusOK, Response{
		Reference: ref,
		Count:     len(result),
		Results:   report.Entries(result),
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
