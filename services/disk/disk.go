package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fpgrowth/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// This can be used as namespace
	// to differentiate files across multiple instances of DiskDriver
	// Analogus to bucket name
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

// Create writes reader to path/fileName, creating path if needed. An empty
// path means the working directory.
func (dd *DiskDriver) Create(path, fileName string, reader io.ReadSeeker) error {
	if path != "" {
		err := os.MkdirAll(path, 0755)
		if err != nil {
			log.WithError(err).Errorln("Failed to create dir")
			return err
		}
	}

	file, err := os.Create(filepath.Join(path, fileName))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, reader)
	return err
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	file, err := os.OpenFile(filepath.Join(path, fileName), os.O_RDONLY, 0444)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// GetObjectSize returns the size in bytes of path/fileName.
func (dd *DiskDriver) GetObjectSize(path, fileName string) (int64, error) {
	objInfo, err := os.Stat(filepath.Join(path, fileName))
	if err != nil {
		return 0, err
	}
	return objInfo.Size(), nil
}

// GetRunDir is relative to the working directory when baseDir is empty.
func (dd *DiskDriver) GetRunDir(runID string) string {
	if dd.baseDir == "" {
		return fmt.Sprintf("runs/%s/", runID)
	}
	return fmt.Sprintf("%s/runs/%s/", dd.baseDir, runID)
}

func (dd *DiskDriver) GetPatternsFilePathAndName(runID string) (string, string) {
	return dd.GetRunDir(runID), "patterns.txt"
}

func (dd *DiskDriver) GetTreeFilePathAndName(runID string) (string, string) {
	return dd.GetRunDir(runID), "fptree.txt"
}
