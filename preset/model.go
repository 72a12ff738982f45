package preset

import (
	"fmt"
	"strings"
)

// Format tells the loader how to parse a source file.
type Format int

const (
	FormatPlain Format = iota
	FormatStructured
)

func (f Format) String() string {
	if f == FormatStructured {
		return "structured"
	}
	return "plain"
}

// Source is a preset file reference resolved to a location on disk.
type Source struct {
	Ref    string `json:"ref"`
	Path   string `json:"path"`
	Format Format `json:"format"`
}

// Line is one loaded preset together with its position in the source file.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// KeywordMode controls how include terms combine.
type KeywordMode int

const (
	KeywordOff KeywordMode = iota
	KeywordAnd
	KeywordOr
)

func (m KeywordMode) String() string {
	switch m {
	case KeywordAnd:
		return "AND"
	case KeywordOr:
		return "OR"
	default:
		return "OFF"
	}
}

// ParseKeywordMode accepts OFF, AND or OR in any case. Blank means OFF.
func ParseKeywordMode(s string) (KeywordMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "OFF":
		return KeywordOff, nil
	case "AND":
		return KeywordAnd, nil
	case "OR":
		return KeywordOr, nil
	}
	return KeywordOff, fmt.Errorf("keyword mode %q: %w", s, ErrUnknownMode)
}

// SelectionMode picks the strategy used to choose one filtered preset.
type SelectionMode int

const (
	Manual SelectionMode = iota
	Sequential
	SequentialContinue
	Random
)

func (m SelectionMode) String() string {
	switch m {
	case Sequential:
		return "Sequential"
	case SequentialContinue:
		return "Sequential (continue)"
	case Random:
		return "Random"
	default:
		return "Manual"
	}
}

// IsSequential reports whether wildcard sites should cycle instead of
// drawing at random.
func (m SelectionMode) IsSequential() bool {
	return m == Sequential || m == SequentialContinue
}

// ParseSelectionMode accepts the display names ("Sequential (continue)"
// included) in any case, plus "continue" as a short alias. Blank means Manual.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return Manual, nil
	case "sequential":
		return Sequential, nil
	case "sequential (continue)", "continue", "sequential-continue":
		return SequentialContinue, nil
	case "random":
		return Random, nil
	}
	return Manual, fmt.Errorf("selection mode %q: %w", s, ErrUnknownMode)
}

// Request carries one selection call from a host.
type Request struct {
	Source        string
	AbsolutePath  string
	Keywords      string
	KeywordMode   KeywordMode
	SelectionMode SelectionMode
	PresetIndex   int
	Seed          uint64
	Wildcards     bool
}

// Result is always well formed. Err classifies failed outcomes; the strings
// then carry the user-facing message.
type Result struct {
	Text       string `json:"text"`
	PresetList string `json:"preset_list"`
	Info       string `json:"info"`
	Err        error  `json:"-"`
}
