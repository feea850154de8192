// Package api exposes the recording and comparison operations over HTTP.
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/coach"
	"github.com/formsight/formsight/internal/compare"
	"github.com/formsight/formsight/internal/config"
	"github.com/formsight/formsight/internal/cycles"
	"github.com/formsight/formsight/internal/httputil"
	"github.com/formsight/formsight/internal/report"
	"github.com/formsight/formsight/internal/series"
	"github.com/formsight/formsight/internal/session"
)

// ANSI escape codes for the access log
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// maxUploadBytes bounds CSV uploads.
const maxUploadBytes = 8 * 1024 * 1024

// Server wires the session and comparator behind HTTP handlers.
type Server struct {
	session    *session.Session
	comparator *compare.Comparator
	tuning     *config.TuningConfig
}

// NewServer builds a Server. The comparator is configured from the tuning
// file so the same thresholds apply to API and CLI comparisons.
func NewServer(sess *session.Session, tuning *config.TuningConfig) *Server {
	det := cycles.NewDetector(tuning.GetProminence(), tuning.GetMinGapSec())
	det.Window = tuning.GetProminenceWindow()
	norm := cycles.NewNormalizer(tuning.GetPhasePoints())
	return &Server{
		session:    sess,
		comparator: compare.New(det, norm),
		tuning:     tuning,
	}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/record/start", s.startRecording)
	mux.HandleFunc("/api/record/stop", s.stopRecording)
	mux.HandleFunc("/api/series/save", s.saveSeries)
	mux.HandleFunc("/api/series/upload", s.uploadSeries)
	mux.HandleFunc("/api/series/export", s.exportSeries)
	mux.HandleFunc("/api/compare", s.compareSeries)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/charts/overlay", s.overlayChart)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Formsight motion comparison server\n"))
}

func parseRole(r *http.Request) (series.Role, error) {
	return series.ParseRole(r.URL.Query().Get("role"))
}

func (s *Server) startRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	role, err := parseRole(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	s.session.StartRecording(role)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "recording", "role": string(role)})
}

func (s *Server) stopRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	role, err := parseRole(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	s.session.StopRecording(role)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "stopped", "role": string(role)})
}

func (s *Server) saveSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	role, err := parseRole(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	saved, err := s.session.Save(role)
	if err != nil {
		httputil.Conflict(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":      saved.ID,
		"role":    string(saved.Role),
		"samples": len(saved.Samples),
	})
}

func (s *Server) uploadSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	role, err := parseRole(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	ser, err := report.ReadCSV(http.MaxBytesReader(w, r.Body, maxUploadBytes), role)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("failed to parse CSV upload: %v", err))
		return
	}
	s.session.Import(ser)
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":      ser.ID,
		"role":    string(ser.Role),
		"samples": len(ser.Samples),
	})
}

func (s *Server) exportSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	role, err := parseRole(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	ser, ok := s.session.Saved(role)
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("no saved %s recording", role))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.csv", role, ser.ID))
	if err := report.WriteCSV(w, ser); err != nil {
		log.Printf("failed to write CSV export: %v", err)
	}
}

func (s *Server) runComparison(r *http.Request) (*compare.Result, int, error) {
	ref, ok := s.session.Saved(series.Reference)
	if !ok {
		return nil, http.StatusConflict, fmt.Errorf("save a reference recording before comparing")
	}
	cand, ok := s.session.Saved(series.Candidate)
	if !ok {
		return nil, http.StatusConflict, fmt.Errorf("save a candidate recording before comparing")
	}

	mode, err := compare.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	chans, err := angles.ParseChannels(r.URL.Query().Get("channels"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	res, err := s.comparator.Compare(ref, cand, chans, mode)
	if err != nil {
		if errors.Is(err, compare.ErrNoComparableData) {
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return res, http.StatusOK, nil
}

func (s *Server) compareSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	res, status, err := s.runComparison(r)
	if err != nil {
		httputil.WriteJSONError(w, status, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": res,
		"tips":   coach.Tips(res),
	})
}

func (s *Server) overlayChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	channel := angles.Channel(r.URL.Query().Get("channel"))
	if channel == "" {
		channel = angles.KneeL
	}
	if !angles.Valid(channel) {
		httputil.BadRequest(w, fmt.Sprintf("unknown channel %q", channel))
		return
	}

	res, status, err := s.runComparison(r)
	if err != nil {
		httputil.WriteJSONError(w, status, err.Error())
		return
	}
	// The channel may have been silently skipped during comparison (no
	// usable data on one side); decide that before committing a 200.
	if !resultHasChannel(res, channel) {
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("channel %s has no comparable data", channel))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderOverlayHTML(w, res, channel); err != nil {
		log.Printf("failed to render overlay chart: %v", err)
	}
}

func resultHasChannel(res *compare.Result, channel angles.Channel) bool {
	for _, cr := range res.Channels {
		if cr.Channel == channel {
			return true
		}
	}
	return false
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":           s.session.ID(),
		"sampling_interval_ms": s.tuning.GetSamplingInterval().Milliseconds(),
		"frame_interval_ms":    s.tuning.GetFrameInterval().Milliseconds(),
		"min_landmark_score":   s.tuning.GetMinLandmarkScore(),
		"smoother":             s.tuning.GetSmoother(),
		"ema_alpha":            s.tuning.GetEMAAlpha(),
		"window_size":          s.tuning.GetWindowSize(),
		"prominence":           s.tuning.GetProminence(),
		"min_gap_sec":          s.tuning.GetMinGapSec(),
		"phase_points":         s.tuning.GetPhasePoints(),
	})
}
