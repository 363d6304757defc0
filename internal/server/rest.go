package server

import (
	"encoding/json"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := apperrors.As(err); ok {
		status = appErr.HTTPStatus()
	}
	if status >= http.StatusInternalServerError {
		trace.Logger(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorMessage(err))
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	e, ok := s.mgr.Latest()
	if !ok {
		writeError(w, r, apperrors.New(apperrors.NotFound, "no capture result yet"))
		return
	}
	writeJSON(w, http.StatusOK, ResultMessage{Type: TypeResult, Session: e.Session, Result: e.Result})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := DefaultRecentResults
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, r, apperrors.Newf(apperrors.InvalidArgument, "invalid n %q", v))
			return
		}
		n = parsed
	}
	entries := s.mgr.Recent(n)
	out := make([]ResultMessage, len(entries))
	for i, e := range entries {
		out[i] = ResultMessage{Type: TypeResult, Session: e.Session, Result: e.Result}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	entries := s.mgr.CaptureSession().Palette()
	if len(entries) == 0 {
		writeError(w, r, apperrors.New(apperrors.NotFound, "no palette yet"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, palette.ExportText(entries))
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, r, apperrors.Wrap(err, apperrors.InvalidArgument, "read upload"))
		return
	}
	theme, err := s.mgr.Theme(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (s *Server) handleSaliency(w http.ResponseWriter, r *http.Request) {
	m, focal := s.mgr.CaptureSession().Saliency()
	if len(m.Values) == 0 {
		writeError(w, r, apperrors.New(apperrors.NotFound, "no saliency map; enable the golden HUD"))
		return
	}
	img := m.Image()
	if focal != nil {
		focal.Overlay(img)
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)

	w.Header().Set("Content-Type", "image/webp")
	if err := nativewebp.Encode(w, out, nil); err != nil {
		trace.Logger(r.Context()).Error("webp encode failed", "error", err)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SettingsMessage{Type: TypeSettings, Settings: s.mgr.CaptureSession().Settings()})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, r, apperrors.Wrap(err, apperrors.InvalidArgument, "read body"))
		return
	}
	applied, err := s.mgr.CaptureSession().ModifySettings(overlay(raw))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsMessage{Type: TypeSettings, Settings: applied})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mgr.CaptureSession().Reset()
	writeJSON(w, http.StatusOK, Message{Type: TypeReset})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.mgr.SessionCount(),
		"capture":  s.mgr.CaptureState(),
	})
}
