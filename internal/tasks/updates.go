package tasks

import (
	"fmt"

	"github.com/desertthunder/marvelx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCharacters Phase = iota
	SaveCharacters
	ReadSaved
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchCharacters:
		return "fetch_characters"
	case SaveCharacters:
		return "save_characters"
	case ReadSaved:
		return "read_saved"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func startImportUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCharacters,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d characters from Marvel...", total),
	}
}

func importedUpdate(step, total int, c models.MarvelCharacter) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveCharacters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, c.Name),
		Data:    c,
	}
}

func importFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCharacters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func readSavedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadSaved,
		Step:    1,
		Total:   2,
		Message: "Reading saved characters...",
	}
}

func writeExportUpdate(count int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Writing %d characters as %s...", count, format),
	}
}
