package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/masha-osint/masha/internal/model"
)

// SaveArtifact writes the run artifact as indented JSON under dir and
// returns the file path. The filename is derived from the normalized target.
func SaveArtifact(dir string, artifact model.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "report: create dir")
	}

	path := filepath.Join(dir, "Masha_"+safeName(artifact.Target.Normalized)+"_FULL.json")

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "report: marshal artifact")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "report: write %s", path)
	}
	return path, nil
}

// safeName turns a target value into a filesystem-safe fragment.
func safeName(v string) string {
	r := strings.NewReplacer("@", "_at_", " ", "_", "/", "_", ".", "_")
	return r.Replace(v)
}
