package filestore

import (
	"io"
)

// FileManager abstracts where inputs, reports, trees and stored pattern runs
// live. dir values returned by the Get*PathAndName helpers end with a
// separator and can be passed back to Create and Get as is.
type FileManager interface {
	Create(dir, fileName string, reader io.ReadSeeker) error
	Get(dir, fileName string) (io.ReadCloser, error)
	GetObjectSize(dir, fileName string) (int64, error)
	GetRunDir(runID string) string
	GetPatternsFilePathAndName(runID string) (string, string)
	GetTreeFilePathAndName(runID string) (string, string)
}
