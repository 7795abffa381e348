package render

import (
	"bytes"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// yamlFrontMatter decodes with yaml.v3 so date can read the raw node.
var yamlFrontMatter = frontmatter.NewFormat(delimiter, delimiter, yaml.Unmarshal)

type frontMatter struct {
	Title string `yaml:"title"`
	Date  date   `yaml:"date"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

type date struct{ time.Time }

func (d *date) UnmarshalYAML(value *yaml.Node) error {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value.Value); err == nil {
			d.Time = t
			return nil
		}
	}
	return errors.Errorf("line %d: unsupported date %q", value.Line, value.Value)
}

// parseFrontMatter decodes a leading "---" delimited YAML block into meta
// and returns the rest of the document. Documents without one are returned
// unchanged; a block that is opened but never closed is an error.
func parseFrontMatter(raw []byte, meta *frontMatter) ([]byte, error) {
	body, err := frontmatter.MustParse(bytes.NewReader(raw), meta, yamlFrontMatter)
	switch {
	case errors.Is(err, frontmatter.ErrNotFound):
		if opensFrontMatter(raw) {
			return nil, errors.New("front matter is not terminated by " + delimiter)
		}
		return raw, nil
	case err != nil:
		return nil, errors.WithMessage(err, "parsing front matter")
	}
	return body, nil
}

func opensFrontMatter(raw []byte) bool {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			return string(trimmed) == delimiter
		}
	}
	return false
}
