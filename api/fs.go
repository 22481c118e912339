package api

import (
	"context"
	"net/url"
)

// FileInfo describes a file or directory on the Freebox storage
type FileInfo struct {
	Path         string `json:"path"` // base64 encoded
	Name         string `json:"name"`
	Type         string `json:"type"` // dir or file
	Size         int64  `json:"size"`
	Modification int64  `json:"modification"`
	Index        int    `json:"index"`
	Link         bool   `json:"link"`
	Target       string `json:"target,omitempty"`
	Hidden       bool   `json:"hidden"`
	MimeType     string `json:"mimetype"`
	FolderCount  int    `json:"foldercount"`
	FileCount    int    `json:"filecount"`
}

// IsDir reports whether the entry is a directory
func (f FileInfo) IsDir() bool {
	return f.Type == "dir"
}

// DecodedPath returns Path in clear text
func (f FileInfo) DecodedPath() (string, error) {
	return DecodePath(f.Path)
}

// ListOptions tunes a directory listing
type ListOptions struct {
	OnlyFolder     bool
	CountSubFolder bool
	RemoveHidden   bool
}

// FileTask is a long running file operation
type FileTask struct {
	ID             int    `json:"id"`
	Type           string `json:"type"`  // cp, mv, rm, archive, extract, hash
	State          string `json:"state"` // queued, running, paused, done, failed
	Error          string `json:"error"`
	CreatedTS      int64  `json:"created_ts"`
	StartedTS      int64  `json:"started_ts"`
	DoneTS         int64  `json:"done_ts"`
	Duration       int64  `json:"duration"`
	Progress       int    `json:"progress"`
	ETA            int64  `json:"eta"`
	From           string `json:"from"`
	To             string `json:"to"`
	NFiles         int    `json:"nfiles"`
	NFilesDone     int    `json:"nfiles_done"`
	TotalBytes     int64  `json:"total_bytes"`
	TotalBytesDone int64  `json:"total_bytes_done"`
	CurrBytes      int64  `json:"curr_bytes"`
	CurrBytesDone  int64  `json:"curr_bytes_done"`
	Rate           int64  `json:"rate"`
}

// Conflict modes for operations that may overwrite
const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictBoth      = "both"
	ConflictRecent    = "recent"
)

// FS exposes fs/ and dl/ endpoints. Paths are given in clear text and
// encoded on the way out. Requires the explorer permission.
type FS struct {
	c Caller
}

// NewFS creates the file system module
func NewFS(c Caller) *FS {
	return &FS{c: c}
}

// List returns the entries of a directory
func (m *FS) List(ctx context.Context, path string, opts ListOptions) ([]FileInfo, error) {
	q := url.Values{}
	q.Set("onlyFolder", boolFlag(opts.OnlyFolder))
	q.Set("countSubFolder", boolFlag(opts.CountSubFolder))
	q.Set("removeHidden", boolFlag(opts.RemoveHidden))
	return decode[[]FileInfo](m.c.Get(ctx, "fs/ls/"+EncodePath(path)+"?"+q.Encode()))
}

// Info returns information about one file
func (m *FS) Info(ctx context.Context, path string) (FileInfo, error) {
	return decode[FileInfo](m.c.Get(ctx, "fs/info/"+EncodePath(path)))
}

// Mkdir creates dirname inside parent
func (m *FS) Mkdir(ctx context.Context, parent, dirname string) (string, error) {
	body := struct {
		Parent  string `json:"parent"`
		DirName string `json:"dirname"`
	}{Parent: EncodePath(parent), DirName: dirname}
	encoded, err := decode[string](m.c.Post(ctx, "fs/mkdir/", body))
	if err != nil {
		return "", err
	}
	return DecodePath(encoded)
}

// Rename gives the file at src the name dst, in the same directory
func (m *FS) Rename(ctx context.Context, src, dst string) (FileInfo, error) {
	body := struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	}{Src: EncodePath(src), Dst: dst}
	return decode[FileInfo](m.c.Post(ctx, "fs/rename/", body))
}

// Remove starts a task deleting the given files
func (m *FS) Remove(ctx context.Context, paths ...string) (FileTask, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		files = append(files, EncodePath(p))
	}
	body := struct {
		Files []string `json:"files"`
	}{Files: files}
	return decode[FileTask](m.c.Post(ctx, "fs/rm/", body))
}

// Tasks lists file tasks
func (m *FS) Tasks(ctx context.Context) ([]FileTask, error) {
	return decode[[]FileTask](m.c.Get(ctx, "fs/tasks/"))
}

// Download fetches a file. The content is returned as-is, never decoded.
func (m *FS) Download(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := m.c.Get(ctx, "dl/"+EncodePath(path))
	if err != nil {
		return nil, "", err
	}
	return resp.Raw, resp.ContentType, nil
}
