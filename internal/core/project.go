package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Project represents a wardroom workspace.
type Project struct {
	Root   string
	DBPath string
}

const (
	workspaceDir = ".wardroom"
	dbFileName   = "chat.db"
)

// DiscoverProject walks up from startDir to find a .wardroom directory.
// WARDROOM_DIR overrides discovery when set.
func DiscoverProject(startDir string) (Project, error) {
	if override := os.Getenv("WARDROOM_DIR"); override != "" {
		dbPath := filepath.Join(override, dbFileName)
		if _, err := os.Stat(dbPath); err != nil {
			return Project{}, fmt.Errorf("wardroom database not found at %s. Run 'wr init' first", dbPath)
		}
		return Project{Root: filepath.Dir(override), DBPath: dbPath}, nil
	}

	current := startDir
	if current == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		current = cwd
	}
	current, err := filepath.Abs(current)
	if err != nil {
		return Project{}, err
	}

	for {
		wrDir := filepath.Join(current, workspaceDir)
		info, err := os.Stat(wrDir)
		if err == nil && info.IsDir() {
			dbPath := filepath.Join(wrDir, dbFileName)
			if _, err := os.Stat(dbPath); err != nil {
				return Project{}, fmt.Errorf("wardroom database not found. Run 'wr init' first")
			}
			return Project{Root: current, DBPath: dbPath}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Project{}, fmt.Errorf("not initialized. Run 'wr init' first")
		}
		current = parent
	}
}

// InitProject initializes a new wardroom workspace at dir.
func InitProject(dir string, force bool) (Project, error) {
	root := dir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return Project{}, err
	}

	wrDir := filepath.Join(root, workspaceDir)
	dbPath := filepath.Join(wrDir, dbFileName)

	if info, err := os.Stat(wrDir); err == nil && info.IsDir() && !force {
		if _, err := os.Stat(dbPath); err == nil {
			return Project{}, fmt.Errorf("already initialized. Use --force to reinitialize")
		}
	}

	if err := os.MkdirAll(wrDir, 0o755); err != nil {
		return Project{}, err
	}
	EnsureGitignore(wrDir)

	if force {
		if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Project{}, err
		}
	}

	return Project{Root: root, DBPath: dbPath}, nil
}

// EnsureGitignore writes a .gitignore inside the workspace dir so the
// database and its sidecar files stay out of version control.
func EnsureGitignore(wrDir string) {
	path := filepath.Join(wrDir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return
	}
	_ = os.WriteFile(path, []byte("chat.db\nchat.db-wal\nchat.db-shm\n"), 0o644)
}
