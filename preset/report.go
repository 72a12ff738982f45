package preset

import (
	"fmt"
	"strings"
)

const (
	noPresetsText    = "(No presets available)"
	emptyFileText    = "(File is empty or failed to load)"
	noFilesText      = "(No preset files found)"
	expansionStopped = "[Wildcard expansion stopped: iteration limit reached]"
)

// GeneratePresetList numbers every line by its position in the file.
func GeneratePresetList(lines []string) string {
	if len(lines) == 0 {
		return noPresetsText
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", i, line)
	}
	return b.String()
}

// BuildSelectionInfo summarises a selection. index is the position in the
// unfiltered file.
func BuildSelectionInfo(index int, text string, mode SelectionMode, filtered, total int) string {
	return fmt.Sprintf("Selected: %d: %s\nMode: %s\nFiltered: %d/%d presets", index, text, mode, filtered, total)
}

func wildcardNote(mode SelectionMode) string {
	kind := "random"
	if mode.IsSequential() {
		kind = "sequential"
	}
	return "[Wildcards expanded: " + kind + "]"
}
