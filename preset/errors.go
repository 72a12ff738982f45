package preset

import "errors"

// Outcome classes of a selection, carried in Result.Err.
var (
	ErrNotFound          = errors.New("preset file not found")
	ErrUnsupportedFormat = errors.New("unsupported preset file format")
	ErrNoSource          = errors.New("no preset file selected")
	ErrEmpty             = errors.New("preset file is empty or failed to load")
	ErrNoMatch           = errors.New("no presets match keywords")
	ErrUnknownMode       = errors.New("unknown mode")
)
