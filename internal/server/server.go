// Package server exposes stored time-use data over a small read-only
// JSON API.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/store"
)

// NewRouter builds the API router over a store.
func NewRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/statistics", handleStatistics(st))
		r.Get("/observations", handleObservations(st))
		r.Get("/demographics", handleDemographics(st))
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleStatistics(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		year, err := intParam(q.Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}

		filter := store.StatisticFilter{
			Names:       csvParam(q.Get("name")),
			Demographic: q.Get("demographic"),
			Year:        year,
			Source:      model.Source(q.Get("source")),
		}

		stats, err := st.ListStatistics(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"statistics": stats, "count": len(stats)})
	}
}

func handleObservations(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		year, err := intParam(q.Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		limit, err := intParam(q.Get("limit"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		offset, err := intParam(q.Get("offset"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}

		filter := model.ObservationFilter{
			SeriesIDs:  csvParam(q.Get("series_id")),
			Year:       year,
			LatestOnly: q.Get("latest") == "true",
			Limit:      limit,
			Offset:     offset,
		}

		obs, err := st.ListObservations(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"observations": obs, "count": len(obs)})
	}
}

func handleDemographics(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		year, err := intParam(q.Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}

		filter := store.DemographicFilter{
			Demographic: q.Get("demographic"),
			DayType:     model.DayType(q.Get("day_type")),
			Year:        year,
		}

		rows, err := st.ListDemographics(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"demographics": rows, "count": len(rows)})
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func csvParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
