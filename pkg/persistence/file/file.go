// Package file provides file-based persistence backed by one JSON document
// per entity. It suits development and single-node deployments; concurrent
// writers are not coordinated beyond last-write-wins per file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/voltway/weaver/pkg/persistence"
)

const (
	workflowsDir = "workflows"
	webhooksDir  = "webhooks"
	runsDir      = "runs"
	schedulesDir = "schedules"
)

// Persistence implements the persistence.Persistence interface using the file
// system.
type Persistence struct {
	root string
}

// NewPersistence creates a new instance rooted at the given directory. A
// "file://" prefix is tolerated for URL-style configuration.
func NewPersistence(root string) persistence.Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// readDocument loads one JSON document into out. Returns os.ErrNotExist when
// the document is missing.
func (fp *Persistence) readDocument(dir, id string, out any) error {
	filePath := filepath.Clean(path.Join(fp.root, dir, id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s/%s: %w", dir, id, err)
	}

	return nil
}

// writeDocument stores one JSON document, creating the collection directory
// on first use.
func (fp *Persistence) writeDocument(dir, id string, in any) error {
	if err := os.MkdirAll(path.Join(fp.root, dir), 0750); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", dir, id, err)
	}

	return os.WriteFile(path.Join(fp.root, dir, id+".json"), data, 0600)
}

// listIDs returns the document ids of a collection. A missing collection
// directory means an empty collection.
func (fp *Persistence) listIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(path.Join(fp.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	return ids, nil
}

func (fp *Persistence) deleteDocument(dir, id string) error {
	err := os.Remove(path.Join(fp.root, dir, id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s/%s: %w", dir, id, err)
	}

	return nil
}
