package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/logger"
)

// stampFormat is the timestamp embedded in backup file names.
const stampFormat = "20060102-150405"

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

func (b BackupInfo) Name() string {
	return filepath.Base(b.Path)
}

// Manager creates, lists, rotates and restores copies of a SQLite database.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

// WithRetention sets how many backups rotation keeps.
func WithRetention(keep int) Option {
	return func(m *Manager) { m.keep = keep }
}

// WithNow sets the clock used to stamp backup names.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager that keeps backups in a directory next to dbPath.
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Create backs up the database file at dbPath and rotates old backups.
func (m *Manager) Create(ctx context.Context) (BackupInfo, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, fs.ErrNotExist) {
		return BackupInfo{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	return m.CreateFrom(ctx, db)
}

// CreateFrom backs up through an already open connection to the database,
// then rotates old backups.
func (m *Manager) CreateFrom(ctx context.Context, db *sql.DB) (BackupInfo, error) {
	info, err := m.create(ctx, db)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := m.Rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create(ctx context.Context, db *sql.DB) (BackupInfo, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return BackupInfo{}, fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	stamp := m.now()
	path, err := m.uniquePath(stamp)
	if err != nil {
		return BackupInfo{}, err
	}

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		logger.Debug("VACUUM INTO failed, copying file instead", "error", err)
		if err := copyFile(m.dbPath, path); err != nil {
			return BackupInfo{}, fmt.Errorf("failed to backup database: %w", err)
		}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("failed to stat backup: %w", err)
	}
	logger.Info("Created backup", "path", path)
	return BackupInfo{Path: path, Timestamp: stamp.Truncate(time.Second), Size: stat.Size()}, nil
}

// uniquePath names a backup after stamp, adding a counter when the name is taken.
func (m *Manager) uniquePath(stamp time.Time) (string, error) {
	base := constants.BackupFilePrefix + stamp.Format(stampFormat)
	path := filepath.Join(m.backupDir, base+constants.BackupFileSuffix)
	for counter := 1; counter <= 100; counter++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, constants.BackupFileSuffix))
	}
	return "", errors.New("failed to generate unique backup filename")
}

// parseName extracts the timestamp and counter from a backup file name.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(rest) < len(stampFormat) {
		return time.Time{}, 0, false
	}

	stamp, err := time.ParseInLocation(stampFormat, rest[:len(stampFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}

	counter := 0
	if suffix := rest[len(stampFormat):]; suffix != "" {
		n, ok := strings.CutPrefix(suffix, "-")
		if !ok {
			return time.Time{}, 0, false
		}
		counter, err = strconv.Atoi(n)
		if err != nil {
			return time.Time{}, 0, false
		}
	}
	return stamp, counter, true
}

// List returns all backups, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type entry struct {
		info    BackupInfo
		counter int
	}
	var found []entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stamp, counter, ok := parseName(e.Name())
		if !ok {
			continue
		}
		stat, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{
			info:    BackupInfo{Path: filepath.Join(m.backupDir, e.Name()), Timestamp: stamp, Size: stat.Size()},
			counter: counter,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].info.Timestamp.Equal(found[j].info.Timestamp) {
			return found[i].info.Timestamp.After(found[j].info.Timestamp)
		}
		return found[i].counter > found[j].counter
	})

	backups := make([]BackupInfo, len(found))
	for i, f := range found {
		backups[i] = f.info
	}
	return backups, nil
}

// Rotate removes the oldest backups beyond the retention limit.
func (m *Manager) Rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the database with the backup at path. The current database
// is backed up first, without rotation; that safety copy is returned.
// The database must not be open while restoring.
func (m *Manager) Restore(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verify(ctx, path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
		if err != nil {
			return "", fmt.Errorf("failed to open current database: %w", err)
		}
		info, err := m.create(ctx, db)
		db.Close()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		safety = info.Path
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored database", "from", path, "safety_backup", safety)
	return safety, nil
}

// Resolve finds a backup by path or by file name inside the backup directory.
func (m *Manager) Resolve(nameOrPath string) string {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath
	}
	return filepath.Join(m.backupDir, filepath.Base(nameOrPath))
}

func verify(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
