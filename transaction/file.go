package transaction

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fpgrowth/filestore"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxLineBytes = 1024 * 1024

// Opener returns a fresh reader positioned at the start of the data.
type Opener func() (io.ReadCloser, error)

// FileSource reads "tid time item number" lines. Blank lines are skipped.
// Reset closes the current reader and opens the data again.
type FileSource struct {
	open    Opener
	rc      io.ReadCloser
	scanner *bufio.Scanner
	lineNo  int
}

func NewFileSource(open Opener) *FileSource {
	return &FileSource{open: open}
}

// NewFileSourceFromManager reads dir/fileName through fm, which lets the
// same input format come from local disk or a cloud bucket.
func NewFileSourceFromManager(fm filestore.FileManager, dir, fileName string) *FileSource {
	return NewFileSource(func() (io.ReadCloser, error) {
		return fm.Get(dir, fileName)
	})
}

func (fs *FileSource) Reset() error {
	if err := fs.Close(); err != nil {
		return err
	}
	rc, err := fs.open()
	if err != nil {
		return errors.Wrap(err, "failed to open transactions")
	}
	fs.rc = rc
	fs.scanner = bufio.NewScanner(rc)
	fs.scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	fs.lineNo = 0
	return nil
}

func (fs *FileSource) Next() (Record, error) {
	if fs.scanner == nil {
		if err := fs.Reset(); err != nil {
			return Record{}, err
		}
	}
	for fs.scanner.Scan() {
		fs.lineNo++
		line := fs.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			log.WithFields(log.Fields{"line": fs.lineNo, "err": err}).Error("Unable to parse transaction record.")
			return Record{}, errors.Wrapf(err, "line %d", fs.lineNo)
		}
		return rec, nil
	}
	if err := fs.scanner.Err(); err != nil {
		return Record{}, errors.Wrap(err, "failed to read transactions")
	}
	return Record{}, io.EOF
}

func (fs *FileSource) Close() error {
	if fs.rc == nil {
		return nil
	}
	err := fs.rc.Close()
	fs.rc = nil
	fs.scanner = nil
	return err
}

// ParseRecord splits one input line on whitespace. The time and number
// columns are optional, the item column is not.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) <= ItemCol {
		return Record{}, errors.Wrap(ErrMalformedRecord, fmt.Sprintf("expected at least %d columns, got %d", ItemCol+1, len(fields)))
	}
	rec := Record{
		TID:  fields[TidCol],
		Time: fields[TimeCol],
		Item: fields[ItemCol],
	}
	if len(fields) > NumberCol {
		rec.Number = fields[NumberCol]
	}
	return rec, nil
}
