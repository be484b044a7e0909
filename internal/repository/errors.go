// Package repository is the MySQL storage behind the importer, the health
// monitor and the public API.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row. Handlers
// translate it into a 404.
var ErrNotFound = errors.New("not found")
