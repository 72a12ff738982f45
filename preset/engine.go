package preset

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Engine runs the full selection pipeline: load, filter, select, expand.
// It holds no per-caller state; that lives in the State passed to Select.
type Engine struct {
	loader *Loader
	logger *zap.Logger
}

// NewEngine returns an Engine reading files through loader.
func NewEngine(loader *Loader, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{loader: loader, logger: logger}
}

// Loader returns the loader the engine reads through.
func (e *Engine) Loader() *Loader {
	return e.loader
}

// Select runs one selection against st. Failures are reported through
// Result.Err and the message strings; Select never panics on bad input.
func (e *Engine) Select(st *State, req Request) Result {
	ref, identifier, res, ok := e.source(req)
	if !ok {
		return res
	}

	lines := e.loader.Load(ref)
	if len(lines) == 0 {
		e.logger.Warn("preset file is empty or failed to load", zap.String("source", identifier))
		return Result{PresetList: emptyFileText, Err: fmt.Errorf("%s: %w", identifier, ErrEmpty)}
	}
	list := GeneratePresetList(lines)

	filtered := Filter(lines, ParseKeywords(req.Keywords), req.KeywordMode)
	if len(filtered) == 0 {
		msg := "No presets match keywords: " + req.Keywords
		e.logger.Warn("keyword filter removed every preset",
			zap.String("source", identifier), zap.String("keywords", req.Keywords))
		return Result{PresetList: list, Info: msg, Err: fmt.Errorf("%q: %w", req.Keywords, ErrNoMatch)}
	}

	key := StateKey{Source: identifier, Keywords: req.Keywords, KeywordMode: req.KeywordMode}
	pos, line := st.Select(filtered, req.SelectionMode, req.PresetIndex, req.Seed, key)
	e.logger.Debug("preset selected",
		zap.String("mode", req.SelectionMode.String()),
		zap.Int("position", pos),
		zap.Int("index", line.Index),
		zap.String("text", line.Text))

	res = Result{
		Text:       StripKeyPath(line.Text),
		PresetList: list,
		Info:       BuildSelectionInfo(line.Index, line.Text, req.SelectionMode, len(filtered), len(lines)),
	}
	if req.Wildcards && res.Text != "" {
		e.expand(st, req, ref, &res)
	}
	return res
}

// source picks the file to load. The absolute path wins when set and must
// exist with a supported extension.
func (e *Engine) source(req Request) (ref, identifier string, res Result, ok bool) {
	if abs := strings.TrimSpace(req.AbsolutePath); abs != "" {
		if _, err := os.Stat(abs); err != nil {
			msg := "Absolute path not found: " + abs
			e.logger.Error("absolute path not found", zap.String("path", abs))
			return "", "", Result{Info: msg, Err: fmt.Errorf("%s: %w", abs, ErrNotFound)}, false
		}
		if _, err := FormatOf(abs); err != nil {
			msg := "Unsupported file type. Use .txt, .yaml, or .yml: " + abs
			e.logger.Error("unsupported preset file type", zap.String("path", abs))
			return "", "", Result{Info: msg, Err: err}, false
		}
		return abs, abs, Result{}, true
	}
	if strings.TrimSpace(req.Source) == "" || req.Source == noFilesText {
		e.logger.Warn("no preset file selected")
		return "", "", Result{PresetList: noFilesText, Err: ErrNoSource}, false
	}
	return req.Source, req.Source, Result{}, true
}

// expand resolves wildcards in res.Text. It needs the source on disk; a
// structured source also backs keyed groups.
func (e *Engine) expand(st *State, req Request, ref string, res *Result) {
	src, err := e.loader.Resolve(ref)
	if err != nil {
		e.logger.Debug("no source context for wildcards", zap.String("ref", ref), zap.Error(err))
		return
	}

	var doc *Document
	if src.Format == FormatStructured {
		doc, err = st.Document(src.Path, e.loader.Document)
		if err != nil {
			e.logger.Warn("cannot load document for wildcard keys", zap.String("path", src.Path), zap.Error(err))
		}
	}

	ctxKey := strings.Join([]string{src.Path, req.Keywords, req.KeywordMode.String(), "wildcard"}, "|")
	exp := st.Expand(res.Text, ExpandOptions{
		Seed:       req.Seed,
		Mode:       req.SelectionMode,
		ContextKey: ctxKey,
		Document:   doc,
		Files:      e.loader,
		Logger:     e.logger,
	})
	if exp.Text != res.Text {
		res.Info += "\n" + wildcardNote(req.SelectionMode)
	}
	if exp.Exhausted {
		res.Info += "\n" + expansionStopped
	}
	res.Text = exp.Text
}
