package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MountMode defines the permission level for a mount point.
type MountMode int

const (
	// MountReadOnly allows only read operations.
	MountReadOnly MountMode = iota
	// MountReadWrite allows read and write operations on existing files.
	MountReadWrite
	// MountReadWriteCreate additionally allows creating files and
	// directories.
	MountReadWriteCreate
)

// Mount maps a virtual path, as seen by evaluated fragments, to a host
// directory with a permission level.
type Mount struct {
	VirtualPath string
	HostPath    string
	Mode        MountMode
}

// FS backs the "fs" host module. Mounts are fixed at construction, so no
// locking is needed.
type FS struct {
	mounts []Mount
}

// NewFS normalizes the given mounts and returns a filesystem restricted to
// them. A mount whose host path cannot be made absolute is dropped.
func NewFS(mounts ...Mount) *FS {
	normalized := make([]Mount, 0, len(mounts))
	for _, m := range mounts {
		vp := "/" + strings.Trim(m.VirtualPath, "/")
		hp, err := filepath.Abs(m.HostPath)
		if err != nil {
			continue
		}
		normalized = append(normalized, Mount{VirtualPath: vp, HostPath: hp, Mode: m.Mode})
	}
	return &FS{mounts: normalized}
}

// DirEntry is one entry of a ReadDir listing.
type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
	Size  int64  `json:"size"`
}

// FileInfo is the result of a Stat call. ModTime is Unix seconds.
type FileInfo struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	IsDir   bool   `json:"isDir"`
	ModTime int64  `json:"modTime"`
}

func errNoEnt(path string) error {
	return fmt.Errorf("ENOENT: no such file or directory, open '%s'", path)
}

func errAccess(path string) error {
	return fmt.Errorf("EACCES: permission denied, access '%s'", path)
}

func errReadOnly(path string) error {
	return fmt.Errorf("EROFS: read-only file system, open '%s'", path)
}

// resolve maps a virtual path onto the host, enforcing mount boundaries.
// The matched mount's mode is returned so callers can distinguish write
// from create permission.
func (f *FS) resolve(virtualPath string, needWrite bool) (string, MountMode, error) {
	vp := filepath.Clean("/" + strings.TrimPrefix(virtualPath, "/"))
	for _, m := range f.mounts {
		if vp != m.VirtualPath && !strings.HasPrefix(vp, m.VirtualPath+"/") {
			continue
		}
		if needWrite && m.Mode == MountReadOnly {
			return "", m.Mode, errReadOnly(virtualPath)
		}
		rel := strings.TrimPrefix(vp, m.VirtualPath)
		host, err := filepath.Abs(filepath.Join(m.HostPath, rel))
		if err != nil {
			return "", m.Mode, errAccess(virtualPath)
		}
		if host != m.HostPath && !strings.HasPrefix(host, m.HostPath+string(filepath.Separator)) {
			return "", m.Mode, errAccess(virtualPath)
		}
		return host, m.Mode, nil
	}
	return "", 0, errAccess(virtualPath)
}

// ReadFile returns the contents of the file at path.
func (f *FS) ReadFile(path string) (string, error) {
	host, _, err := f.resolve(path, false)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(host)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errNoEnt(path)
		}
		return "", fmt.Errorf("read '%s': %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes content to the file at path. Creating a file that does
// not yet exist requires a MountReadWriteCreate mount.
func (f *FS) WriteFile(path, content string) error {
	host, mode, err := f.resolve(path, true)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(host); os.IsNotExist(statErr) && mode != MountReadWriteCreate {
		return errAccess(path)
	}
	if err := os.WriteFile(host, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write '%s': %w", path, err)
	}
	return nil
}

// ReadDir lists the directory at path.
func (f *FS) ReadDir(path string) ([]DirEntry, error) {
	host, _, err := f.resolve(path, false)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(host)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNoEnt(path)
		}
		return nil, fmt.Errorf("readdir '%s': %w", path, err)
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		entry := DirEntry{Name: e.Name(), IsDir: e.IsDir()}
		if info, err := e.Info(); err == nil {
			entry.Size = info.Size()
		}
		out = append(out, entry)
	}
	return out, nil
}

// Exists reports whether path names an existing file or directory inside a
// mount. Paths outside every mount report false rather than erroring.
func (f *FS) Exists(path string) bool {
	host, _, err := f.resolve(path, false)
	if err != nil {
		return false
	}
	_, err = os.Stat(host)
	return err == nil
}

// Mkdir creates the directory at path, including parents. Requires a
// MountReadWriteCreate mount.
func (f *FS) Mkdir(path string) error {
	host, mode, err := f.resolve(path, true)
	if err != nil {
		return err
	}
	if mode != MountReadWriteCreate {
		return errAccess(path)
	}
	if err := os.MkdirAll(host, 0o755); err != nil {
		return fmt.Errorf("mkdir '%s': %w", path, err)
	}
	return nil
}

// Remove deletes the file or empty directory at path.
func (f *FS) Remove(path string) error {
	host, _, err := f.resolve(path, true)
	if err != nil {
		return err
	}
	if err := os.Remove(host); err != nil {
		if os.IsNotExist(err) {
			return errNoEnt(path)
		}
		if strings.Contains(err.Error(), "not empty") {
			return fmt.Errorf("ENOTEMPTY: directory not empty, rmdir '%s'", path)
		}
		return fmt.Errorf("remove '%s': %w", path, err)
	}
	return nil
}

// Stat returns information about the file or directory at path.
func (f *FS) Stat(path string) (FileInfo, error) {
	host, _, err := f.resolve(path, false)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(host)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, errNoEnt(path)
		}
		return FileInfo{}, fmt.Errorf("stat '%s': %w", path, err)
	}
	return FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime().Unix(),
	}, nil
}
