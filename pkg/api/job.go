package api

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/cardgrid/internal/res"
)

// Job describes one document run as read from a YAML job file
type Job struct {
	// Data is the participants JSON file
	Data    string `yaml:"data"`
	Charset string `yaml:"charset,omitempty"`
	Output  string `yaml:"output"`

	// PageSize names a standard size (a4, letter, ...)
	PageSize  string `yaml:"page_size,omitempty"`
	Landscape bool   `yaml:"landscape,omitempty"`

	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`

	Header    []HeaderItem `yaml:"header,omitempty"`
	Meta      []MetaItem   `yaml:"meta,omitempty"`
	Overrides Overrides    `yaml:"overrides,omitempty"`
}

// LoadJob reads a job file from a local path or a data URL
func LoadJob(path string) (*Job, error) {
	data, err := res.NewLoader("").ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	job, err := ParseJob(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// ParseJob decodes a job from YAML. Unknown keys anywhere in the job are
// errors; unknown override keys wrap ErrUnknownOverride.
func ParseJob(r io.Reader) (*Job, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing job: %w", err)
	}
	job := &Job{}
	if len(node.Content) == 0 {
		return job, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "overrides" {
				if err := checkOverrideKeys(root.Content[i+1]); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := decodeStrict(data, job); err != nil {
		return nil, fmt.Errorf("parsing job: %w", err)
	}
	return job, nil
}

// Options returns the generator options the job asks for
func (j *Job) Options() (Options, error) {
	o := DefaultOptions()
	if j.PageSize != "" {
		size, ok := PageSizes[strings.ToLower(j.PageSize)]
		if !ok {
			return o, fmt.Errorf("unknown page size %q", j.PageSize)
		}
		o.PageWidth, o.PageHeight = size[0], size[1]
	}
	if j.Landscape {
		o.PageOrientation = PageOrientationLandscape
	}
	o.Title = j.Title
	o.Author = j.Author
	j.Overrides.Apply(&o)
	return o, nil
}
