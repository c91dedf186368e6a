package shader

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
)

// Loader reads stage sources from a file system. Sources are re-read on
// every call so that edits on disk are picked up by Reload.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// DirLoader returns a loader reading from a directory on disk.
func DirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// Source reads the files named by spec.
func (l *Loader) Source(spec StageSpec) (gpu.ProgramSource, error) {
	var src gpu.ProgramSource
	var err error

	if spec.Compute != "" {
		if src.Compute, err = l.read(spec.Compute); err != nil {
			return src, err
		}
		return src, nil
	}

	if src.Vertex, err = l.read(spec.Vertex); err != nil {
		return src, err
	}
	if src.Fragment, err = l.read(spec.Fragment); err != nil {
		return src, err
	}
	return src, nil
}

func (l *Loader) read(name string) (string, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", fmt.Errorf("reading shader %s: %w", name, err)
	}
	return string(data), nil
}
