// Package publish writes pages and records as markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/model"

	"github.com/m-mizutani/goerr/v2"
)

type WriteOptions struct {
	Overwrite bool
	Renderer  *detail.Renderer
}

type WriteResult struct {
	Written []string `json:"written"`
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName keeps record ids usable as file names.
func fileName(id string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(id, "-"), ".-")
	if name == "" {
		name = "record"
	}
	return name + ".md"
}

// WritePage writes <toDir>/<page>/index.md and one file per record.
func WritePage(def *entity.Definition, recs []model.Record, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	pageDir := filepath.Join(filepath.Clean(toDir), def.Name)
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return WriteResult{}, goerr.Wrap(err, "failed to create page directory", goerr.V("dir", pageDir))
	}

	indexPath := filepath.Join(pageDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderPageMarkdown(def, recs, opt.Renderer)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error; earlier files stay written.
	written := []string{indexPath}
	for _, rec := range recs {
		if rec.ID() == "" {
			continue
		}
		p := filepath.Join(pageDir, fileName(rec.ID()))
		if err := writeFile(p, []byte(RenderRecordMarkdown(def, rec, opt.Renderer)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return goerr.New("file exists (use --overwrite)", goerr.V("path", path))
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}
	return nil
}
