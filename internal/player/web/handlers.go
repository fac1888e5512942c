package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/xapi"
)

const maxStatementBytes = 1 << 20

type pageOptions struct {
	H5PJSONPath string `json:"h5pJsonPath"`
	FrameJS     string `json:"frameJs"`
	FrameCSS    string `json:"frameCss"`
}

type pageData struct {
	Title        string
	MountID      string
	PlayerScript string
	Options      pageOptions
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if id := s.newest(); id != "" {
		http.Redirect(w, r, "/play/"+id, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "No activity is mounted. Pick one in the terminal.\n")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.mounts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "mounts": n})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	pm, ok := s.lookup(chi.URLParam(r, "mountID"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Title:        pm.mount.ActivityID,
		MountID:      pm.mount.ID,
		PlayerScript: s.cfg.PlayerScript,
		Options: pageOptions{
			H5PJSONPath: pm.opts.H5PJSONPath,
			FrameJS:     pm.opts.FrameJS,
			FrameCSS:    pm.opts.FrameCSS,
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Error("render player page", zap.String("mount", pm.mount.ID), zap.Error(err))
	}
}

func (s *Server) handleLoaded(w http.ResponseWriter, r *http.Request) {
	mountID := chi.URLParam(r, "mountID")

	var req struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxStatementBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	pm, ok := s.mounts[mountID]
	alreadyDone := ok && pm.done
	if ok {
		pm.done = true
	}
	s.mu.Unlock()

	switch {
	case !ok:
		writeError(w, http.StatusNotFound, "unknown mount")
		return
	case alreadyDone:
		// A reload of the same page; the first report already settled the mount.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var loadErr error
	if req.Error != "" {
		loadErr = &player.ErrLoadFailed{MountID: mountID, Reason: req.Error}
	}
	pm.loaded <- loadErr
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	mountID := chi.URLParam(r, "mountID")
	if _, ok := s.lookup(mountID); !ok {
		writeError(w, http.StatusNotFound, "unknown mount")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStatementBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "statement too large")
			return
		}
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	st, err := xapi.Parse(body)
	if err != nil {
		s.logger.Debug("rejected statement", zap.String("mount", mountID), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n := s.dispatcher.Emit(player.Event{
		Name:      xapi.EventName,
		MountID:   mountID,
		Statement: st,
	})
	writeJSON(w, http.StatusAccepted, map[string]int{"delivered": n})
}
