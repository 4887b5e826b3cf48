package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Slugify converts a topic label to its file slug, matching the exporter's
// convention: lowercase, non-alphanumerics collapsed to single underscores.
func Slugify(label string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// WriteTree generates and writes the full data tree under cfg.OutputDir:
//
//	config.json
//	periods/<id>/mep_data.json
//	periods/<id>/topics/<slug>.json
func (g *Generator) WriteTree() error {
	if g.cfg.OutputDir == "" {
		return fmt.Errorf("%w: output dir not set", ErrWriteTree)
	}
	if err := writeJSONFile(filepath.Join(g.cfg.OutputDir, "config.json"), g.BoardConfig()); err != nil {
		return err
	}
	for _, p := range periods {
		dir := filepath.Join(g.cfg.OutputDir, "periods", p.ID)
		if err := writeJSONFile(filepath.Join(dir, "mep_data.json"), g.Dataset()); err != nil {
			return err
		}
		for _, slug := range g.TopicSlugs() {
			if err := writeJSONFile(filepath.Join(dir, "topics", slug+".json"), g.Dataset()); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteTree, path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteTree, path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteTree, path, err)
	}
	return nil
}
