package activity

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Manifest is the subset of a package's h5p.json shown to the user.
type Manifest struct {
	Title        string
	MainLibrary  string
	Language     string
	Dependencies []string // "H5P.MemoryGame 1.3"
}

// ReadManifest reads <contentDir>/<id>/h5p.json.
func ReadManifest(contentDir, id string) (*Manifest, error) {
	path := filepath.Join(contentDir, id, "h5p.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse manifest %s: invalid JSON", path)
	}

	doc := gjson.ParseBytes(data)
	m := &Manifest{
		Title:       doc.Get("title").String(),
		MainLibrary: doc.Get("mainLibrary").String(),
		Language:    doc.Get("language").String(),
	}
	doc.Get("preloadedDependencies").ForEach(func(_, dep gjson.Result) bool {
		m.Dependencies = append(m.Dependencies, fmt.Sprintf("%s %d.%d",
			dep.Get("machineName").String(),
			dep.Get("majorVersion").Int(),
			dep.Get("minorVersion").Int()))
		return true
	})
	return m, nil
}
