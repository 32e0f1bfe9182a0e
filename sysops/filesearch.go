package sysops

import (
	"context"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/drake/scriptkit/protocol"
)

// FileSearchHandler implements `fileSearch`: a bounded, case-insensitive
// substring walk under Root (defaulting to the user's home directory),
// reusing the same filepath.WalkDir + hidden-file-skip shape the corpus
// package's discovery uses (corpus/discover.go), generalized from "collect
// every script" to "collect paths matching a query up to a limit".
type FileSearchHandler struct {
	Root  string
	Limit int
}

type fileSearchRequest struct {
	RequestID string `json:"requestId"`
	Query     string `json:"query"`
}

func (h *Handlers) dispatchFileSearch(ctx context.Context, env protocol.Envelope, respond func(any) error) {
	var req fileSearchRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil || h.FileSearch == nil {
		respond(failure(protocol.TypeFileSearchResult, requestID(env), "file search unavailable"))
		return
	}

	matches, err := h.FileSearch.Search(ctx, req.Query)
	if err != nil {
		respond(failure(protocol.TypeFileSearchResult, req.RequestID, err.Error()))
		return
	}
	respond(map[string]any{"type": protocol.TypeFileSearchResult, "requestId": req.RequestID, "files": matches})
}

// Search walks Root and returns up to Limit paths whose base name contains
// query (case-insensitive). Hidden files/directories are skipped.
func (f *FileSearchHandler) Search(ctx context.Context, query string) ([]string, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	needle := strings.ToLower(query)

	var matches []string
	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries rather than aborting the whole search
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(matches) >= limit {
			return filepath.SkipAll
		}
		name := d.Name()
		if name != "." && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if needle == "" || strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return matches, err
	}
	return matches, nil
}
