// Package migrations embeds the versioned SQL schema for each supported database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// SQLite returns the SQLite migration files rooted at their directory.
func SQLite() fs.FS {
	return sub("sqlite")
}

// Postgres returns the PostgreSQL migration files rooted at their directory.
func Postgres() fs.FS {
	return sub("postgres")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a fixed embedded path
		panic(err)
	}
	return fsys
}
