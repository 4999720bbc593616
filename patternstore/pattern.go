// Package patternstore keeps the patterns of past runs so they can be
// inspected without mining again.
package patternstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"fpgrowth/filestore"
	fp "fpgrowth/fptree"
	U "fpgrowth/util"

	cache "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// Adjust scanner buffer capacity to 10MB per line.
const maxCapacity = 10 * 1024 * 1024

var (
	ErrRunNotFound  = errors.New("patternstore: run not found")
	ErrInvalidRunID = errors.New("patternstore: invalid run id")
)

type PatternStore struct {
	diskFileManager  filestore.FileManager
	cloudFileManager filestore.FileManager

	runCache *cache.Cache
}

// New returns a store reading through an LRU of cacheSize runs. cloudManager
// may be nil, runs then only live on disk.
func New(cacheSize int, diskManager, cloudManager filestore.FileManager) (*PatternStore, error) {
	runCache, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &PatternStore{
		diskFileManager:  diskManager,
		cloudFileManager: cloudManager,
		runCache:         runCache,
	}, nil
}

// Put stores the patterns of runID sorted by descending count.
func (ps *PatternStore) Put(runID string, patterns fp.Patterns) error {
	if !U.IsValidRunID(runID) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	logCtx := log.WithFields(log.Fields{"run": runID, "patterns": len(patterns)})
	logCtx.Debugln("[PatternStore] Put")

	sorted := patterns.Sorted()
	reader, err := CreateReaderFromPatterns(sorted)
	if err != nil {
		return err
	}
	if ps.cloudFileManager != nil {
		path, fName := ps.cloudFileManager.GetPatternsFilePathAndName(runID)
		if err := ps.cloudFileManager.Create(path, fName, reader); err != nil {
			logCtx.WithError(err).Error("Failed to write patterns to cloud")
			return err
		}
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}
	path, fName := ps.diskFileManager.GetPatternsFilePathAndName(runID)
	if err := ps.diskFileManager.Create(path, fName, reader); err != nil {
		logCtx.WithError(err).Error("Failed to write patterns to disk")
		return err
	}
	ps.runCache.Add(runID, sorted)
	return nil
}

// Get returns the stored patterns of runID, looking at the cache, the disk
// and then the cloud. A run found only in the cloud is copied to disk.
func (ps *PatternStore) Get(runID string) ([]fp.PatternCount, error) {
	if !U.IsValidRunID(runID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	logCtx := log.WithField("run", runID)
	logCtx.Debugln("[PatternStore] Get")

	if patterns, ok := ps.getFromCache(runID); ok {
		return patterns, nil
	}

	writeToDisk := false
	patterns, err := ps.getFromManager(ps.diskFileManager, runID)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if ps.cloudFileManager == nil {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		writeToDisk = true
		patterns, err = ps.getFromManager(ps.cloudFileManager, runID)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		if err != nil {
			return nil, err
		}
	}

	ps.runCache.Add(runID, patterns)
	if writeToDisk {
		reader, err := CreateReaderFromPatterns(patterns)
		if err == nil {
			path, fName := ps.diskFileManager.GetPatternsFilePathAndName(runID)
			err = ps.diskFileManager.Create(path, fName, reader)
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to copy patterns to disk")
		}
	}
	return patterns, nil
}

func (ps *PatternStore) getFromCache(runID string) ([]fp.PatternCount, bool) {
	iface, ok := ps.runCache.Get(runID)
	if !ok {
		return nil, false
	}
	patterns, ok := iface.([]fp.PatternCount)
	return patterns, ok
}

func (ps *PatternStore) getFromManager(fm filestore.FileManager, runID string) ([]fp.PatternCount, error) {
	path, fName := fm.GetPatternsFilePathAndName(runID)
	file, err := fm.Get(path, fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return CreatePatternsFromScanner(bufio.NewScanner(file))
}

// CreateReaderFromPatterns encodes patterns as JSON lines.
func CreateReaderFromPatterns(patterns []fp.PatternCount) (*bytes.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, pc := range patterns {
		if err := enc.Encode(pc); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("Failed to marshal pattern.")
			return nil, err
		}
	}
	return bytes.NewReader(buf.Bytes()), nil
}

func CreatePatternsFromScanner(scanner *bufio.Scanner) ([]fp.PatternCount, error) {
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	patterns := make([]fp.PatternCount, 0)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var pc fp.PatternCount
		if err := json.Unmarshal(line, &pc); err != nil {
			return patterns, err
		}
		patterns = append(patterns, pc)
	}
	err := scanner.Err()
	return patterns, err
}
