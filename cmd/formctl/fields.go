package main

import (
	"fmt"
	"go-agency-backend/internal/domain"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// readFields parses a flat YAML mapping of field name to scalar value.
// Numbers and booleans are kept in their text form so the validator sees
// what a browser would post.
func readFields(r io.Reader) (map[string]string, error) {
	var raw map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("parse fields: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for name, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %q: expected a scalar value", name)
		}
		if node.Tag == "!!null" {
			continue
		}
		fields[name] = node.Value
	}
	return fields, nil
}

func loadFields(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFields(f)
}

// loadResume reads the resume at path; an empty path means no attachment
func loadResume(path string) (*domain.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

// formatErrors prints field errors one per line in field order
func formatErrors(w io.Writer, order []string, errs map[string]string) {
	for _, name := range order {
		if msg, ok := errs[name]; ok {
			fmt.Fprintf(w, "  %-20s %s\n", name, msg)
		}
	}
}

func quote(s string) string {
	return strconv.Quote(s)
}
