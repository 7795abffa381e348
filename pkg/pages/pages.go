// Package pages renders the site's mustache page templates.
//
// Templates are read from disk on every call so edits show up without a
// restart. Use triple braces ({{{body}}}) for pre-rendered HTML.
package pages

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/pkg/errors"
)

const Extension = ".mustache"

var (
	ErrNotFound    = errors.New("template not found")
	ErrInvalidName = errors.New("invalid template name")
)

type Pages struct {
	dir string
}

func New(dir string) *Pages {
	return &Pages{dir: filepath.Clean(dir)}
}

func (p *Pages) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\x00"+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return filepath.Join(p.dir, name+Extension), nil
}

// Render compiles the template called name and renders it with data.
func (p *Pages) Render(name string, data interface{}) (string, error) {
	path, err := p.path(name)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(path); os.IsNotExist(err) || (err == nil && info.IsDir()) {
		return "", errors.Wrapf(ErrNotFound, "%q", name)
	} else if err != nil {
		return "", errors.WithMessagef(err, "stat template %q", name)
	}

	tmpl, err := mustache.ParseFile(path)
	if err != nil {
		return "", errors.WithMessagef(err, "compiling template %q", name)
	}

	out, err := tmpl.Render(data)
	if err != nil {
		return "", errors.WithMessagef(err, "rendering template %q", name)
	}
	return out, nil
}
