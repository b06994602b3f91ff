// Package pipeline runs the batch: read statements, classify, extract,
// normalize, record, aggregate, and deliver one draft per house.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"bollette/internal/core"
)

// DocumentSource yields the statements for one run. failures carries one
// error per source that could not be read; the returned error is fatal for
// the whole run.
type DocumentSource interface {
	Documents(ctx context.Context) (docs []core.RawDocument, failures []error, err error)
}

// DirSource reads every .txt file in a directory, in name order. Hidden
// files and subdirectories are ignored.
type DirSource struct {
	Dir string
}

func (s DirSource) Documents(ctx context.Context) ([]core.RawDocument, []error, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, nil, err
	}

	var docs []core.RawDocument
	var failures []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".txt") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		text, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			failures = append(failures, &core.UnreadableSourceError{Source: name, Err: err})
			continue
		}
		docs = append(docs, core.RawDocument{Source: name, Text: string(text)})
	}
	return docs, failures, nil
}

// MemorySource serves a fixed document list.
type MemorySource struct {
	Docs []core.RawDocument
}

func (s MemorySource) Documents(ctx context.Context) ([]core.RawDocument, []error, error) {
	return s.Docs, nil, nil
}
