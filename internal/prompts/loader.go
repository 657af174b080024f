// Package prompts holds the LLM prompt templates used for drafting resume text.
// Each JSON file maps a prompt key to a text/template body.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// Catalog parses prompt files on first use and keeps the parsed templates
type Catalog struct {
	fsys fs.FS

	mu    sync.Mutex
	files map[string]*template.Template
}

// NewCatalog creates a catalogue reading prompt files from fsys
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys, files: make(map[string]*template.Template)}
}

var defaultCatalog = NewCatalog(promptFiles)

// file returns the parsed templates of filename, one named template per key
func (c *Catalog) file(filename string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.files[filename]; ok {
		return t, nil
	}

	data, err := fs.ReadFile(c.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var bodies map[string]string
	if err := json.Unmarshal(data, &bodies); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	root := template.New(filename).Option("missingkey=error")
	for key, body := range bodies {
		if _, err := root.New(key).Parse(body); err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s/%s: %w", filename, key, err)
		}
	}
	c.files[filename] = root
	return root, nil
}

func (c *Catalog) lookup(filename, key string) (*template.Template, error) {
	root, err := c.file(filename)
	if err != nil {
		return nil, err
	}
	t := root.Lookup(key)
	if t == nil || key == filename {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return t, nil
}

// Render fills in a prompt. Every placeholder must have a value in data.
func (c *Catalog) Render(filename, key string, data map[string]string) (string, error) {
	t, err := c.lookup(filename, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return buf.String(), nil
}

// Render fills in a built-in prompt
func Render(filename, key string, data map[string]string) (string, error) {
	return defaultCatalog.Render(filename, key, data)
}

