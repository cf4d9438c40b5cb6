package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mainstream-shop/internal/config"
	"mainstream-shop/internal/database"
)

// Backs up the SQLite database with VACUUM INTO, gzips the copy and prunes
// backups older than the retention window.
func main() {
	var (
		dir       = flag.String("dir", "backups", "Backup directory")
		retention = flag.Duration("retention", 14*24*time.Hour, "Delete backups older than this")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != database.DriverSQLite {
		log.Fatalf("Backup supports the sqlite3 driver only, have %q (use pg_dump for postgres)", cfg.Database.Driver)
	}

	db, err := database.NewConnection(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("Failed to create backup directory: %v", err)
	}

	stamp := time.Now().Format("20060102-150405")
	rawPath := filepath.Join(*dir, "mainstream-"+stamp+".db")

	// VACUUM INTO produces a consistent copy even with readers attached
	if _, err := db.Exec("VACUUM INTO ?", rawPath); err != nil {
		log.Fatalf("Failed to back up database: %v", err)
	}

	gzPath := rawPath + ".gz"
	if err := gzipFile(rawPath, gzPath); err != nil {
		log.Fatalf("Failed to compress backup: %v", err)
	}
	if err := os.Remove(rawPath); err != nil {
		log.Printf("Failed to remove uncompressed copy: %v", err)
	}
	fmt.Printf("Backup written: %s\n", gzPath)

	removed, err := pruneOld(*dir, *retention)
	if err != nil {
		log.Fatalf("Failed to prune old backups: %v", err)
	}
	if removed > 0 {
		fmt.Printf("Pruned %d old backups\n", removed)
	}
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		return err
	}
	return gz.Close()
}

func pruneOld(dir string, retention time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db.gz") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	removed := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove %s: %v", path, err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
