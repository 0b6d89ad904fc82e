package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/sjson"
)

// ManifestFile is the project's package descriptor.
const ManifestFile = "package.json"

// HistoryDir is the version-control metadata directory removed from the
// template.
const HistoryDir = ".git"

// manifestIndent matches the two-space style npm itself writes.
const manifestIndent = "  "

// Sanitizer removes template provenance from a fetched copy.
//
// It is stateless; the struct exists so the orchestrator can depend on an
// interface and tests can substitute it.
type Sanitizer struct{}

// NewSanitizer creates a Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// RemoveHistory deletes dir/.git recursively. It is a no-op when the
// directory is absent. An error means the removal was only partial; the
// caller decides whether that matters.
func (s *Sanitizer) RemoveHistory(dir string) error {
	gitDir := filepath.Join(dir, HistoryDir)
	if err := os.RemoveAll(gitDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", gitDir, err)
	}
	return nil
}

// RenameManifest sets the "name" field of dir/package.json to name.
//
// Returns false with a nil error when the manifest does not exist; no file
// is created in that case. Every other field is preserved in its original
// order. The result is re-indented with two spaces and ends with a newline.
func (s *Sanitizer) RenameManifest(dir, name string) (bool, error) {
	path := filepath.Join(dir, ManifestFile)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", ManifestFile, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return true, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}

	updated, err := SetManifestName(raw, name)
	if err != nil {
		return true, err
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return true, fmt.Errorf("failed to write %s: %w", ManifestFile, err)
	}
	return true, nil
}

// SetManifestName returns raw with its top-level "name" set to name.
//
// The transformation works in three phases:
//  1. Strip JSONC comments and require a JSON object
//  2. Replace (or add) the name value in place, leaving other bytes intact
//  3. Re-indent and append a trailing newline for editor-friendliness
func SetManifestName(raw []byte, name string) ([]byte, error) {
	clean := jsonc.ToJSON(raw)
	if !gjson.ValidBytes(clean) {
		return nil, fmt.Errorf("%s is not valid JSON", ManifestFile)
	}
	if !gjson.ParseBytes(clean).IsObject() {
		return nil, fmt.Errorf("%s must contain a JSON object", ManifestFile)
	}

	edited, err := sjson.SetBytes(clean, "name", name)
	if err != nil {
		return nil, fmt.Errorf("failed to set %s name: %w", ManifestFile, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, edited, "", manifestIndent); err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", ManifestFile, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// ManifestField returns the string value at path (gjson syntax) in
// dir/package.json. found is false when the manifest or the field is
// missing, or the field is not a string.
func ManifestField(dir, path string) (value string, found bool, err error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}

	result := gjson.GetBytes(jsonc.ToJSON(raw), path)
	if result.Type != gjson.String {
		return "", false, nil
	}
	return result.String(), true, nil
}
