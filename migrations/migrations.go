// Package migrations embeds the SQL schema for the Task API server and the
// client-side key-value store.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed server/*.sql
var serverFiles embed.FS

//go:embed client/*.sql
var clientFiles embed.FS

// Server returns the Task API schema migrations.
func Server() fs.FS {
	return sub(serverFiles, "server")
}

// Client returns the local state store migrations.
func Client() fs.FS {
	return sub(clientFiles, "client")
}

func sub(files embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
