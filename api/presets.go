package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"preset-selector/preset"
	"preset-selector/session"
)

// selectRequest is the JSON form of preset.Request. Modes use their display
// names; Wildcards defaults to true.
type selectRequest struct {
	Source        string `json:"source"`
	AbsolutePath  string `json:"absolute_path,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	KeywordMode   string `json:"keyword_mode,omitempty"`
	SelectionMode string `json:"selection_mode,omitempty"`
	PresetIndex   int    `json:"preset_index,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
	Wildcards     *bool  `json:"wildcards,omitempty"`
}

func (r selectRequest) toPreset() (preset.Request, error) {
	km, err := preset.ParseKeywordMode(r.KeywordMode)
	if err != nil {
		return preset.Request{}, err
	}
	sm, err := preset.ParseSelectionMode(r.SelectionMode)
	if err != nil {
		return preset.Request{}, err
	}
	if r.PresetIndex < 0 {
		return preset.Request{}, errors.New("preset_index must not be negative")
	}
	wildcards := true
	if r.Wildcards != nil {
		wildcards = *r.Wildcards
	}
	return preset.Request{
		Source:        r.Source,
		AbsolutePath:  r.AbsolutePath,
		Keywords:      r.Keywords,
		KeywordMode:   km,
		SelectionMode: sm,
		PresetIndex:   r.PresetIndex,
		Seed:          r.Seed,
		Wildcards:     wildcards,
	}, nil
}

type selectResponse struct {
	Text       string `json:"text"`
	PresetList string `json:"preset_list"`
	Info       string `json:"info"`
	Status     string `json:"status"`
}

// status names the outcome class of a selection.
func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, preset.ErrNotFound):
		return "not_found"
	case errors.Is(err, preset.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, preset.ErrNoSource):
		return "no_source"
	case errors.Is(err, preset.ErrEmpty):
		return "empty"
	case errors.Is(err, preset.ErrNoMatch):
		return "no_match"
	}
	return "error"
}

// runSelect performs one selection on s. Failed selections are still a
// well-formed response; only the status differs.
func (h *handler) runSelect(s *session.Session, req preset.Request) selectResponse {
	res := h.engine.Select(s.State(), req)
	source := req.Source
	if req.AbsolutePath != "" {
		source = req.AbsolutePath
	}
	if res.Err != nil {
		h.logger.Info("selection failed", zap.String("session", s.ID), zap.Error(res.Err))
		source = ""
	}
	s.Touch(source)
	return selectResponse{
		Text:       res.Text,
		PresetList: res.PresetList,
		Info:       res.Info,
		Status:     status(res.Err),
	}
}

func (h *handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files := h.engine.Loader().ListFiles()
	if files == nil {
		files = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"files": files})
}

func (h *handler) selectDefault(w http.ResponseWriter, r *http.Request) {
	h.serveSelect(w, r, h.manager.Default())
}

func (h *handler) selectSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.serveSelect(w, r, s)
}

func (h *handler) serveSelect(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var body selectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req, err := body.toPreset()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.runSelect(s, req))
}
