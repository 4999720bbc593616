package util

import (
	"path"
	"strings"

	"github.com/rs/xid"
)

// NewRunID returns a new globally unique, time sortable run identifier.
func NewRunID() string {
	return xid.New().String()
}

// IsValidRunID checks the id can be used as a storage path segment.
func IsValidRunID(id string) bool {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return false
	}
	return id != "." && id != ".."
}

// SplitFilePath splits p into a directory, with trailing separator, and a
// file name. A bare file name gets an empty directory.
func SplitFilePath(p string) (string, string) {
	dir, fileName := path.Split(p)
	return dir, fileName
}
