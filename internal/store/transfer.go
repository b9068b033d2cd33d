package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"
)

// ImportMode selects how imported bills combine with existing ones.
type ImportMode string

const (
	// ImportReplace overwrites all existing data.
	ImportReplace ImportMode = "replace"
	// ImportMerge adds only bills whose ids are not already present.
	ImportMerge ImportMode = "merge"
)

// ParseImportMode validates a mode name.
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(s); m {
	case ImportReplace, ImportMerge:
		return m, nil
	}
	return "", fmt.Errorf("unknown import mode %q (want replace or merge)", s)
}

// Importer receives decoded import payloads.
type Importer interface {
	Replace(model.State)
	Merge(model.State) int
}

// Export writes st as an indented JSON document stamped with at.
func Export(w io.Writer, st model.State, at time.Time) error {
	st.Version = model.SchemaVersion
	st.ExportedAt = at.UTC()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ReadExport decodes and upgrades an exported document.
func ReadExport(r io.Reader) (model.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.State{}, fmt.Errorf("reading import: %w", err)
	}
	return Decode(data, 0)
}

// Import decodes r and hands it to dst. A malformed payload is rejected
// before dst sees anything. It returns the number of bills imported.
func Import(dst Importer, r io.Reader, mode ImportMode) (int, error) {
	st, err := ReadExport(r)
	if err != nil {
		return 0, err
	}

	switch mode {
	case ImportReplace:
		dst.Replace(st)
		return len(st.Bills), nil
	case ImportMerge:
		return dst.Merge(st), nil
	default:
		return 0, fmt.Errorf("unknown import mode %q", mode)
	}
}
