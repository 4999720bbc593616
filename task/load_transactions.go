package task

import (
	"context"
	"io"

	C "fpgrowth/config"
	"fpgrowth/filestore"
	"fpgrowth/transaction"
	U "fpgrowth/util"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const loadBatchSize = 1000

// LoadTransactions copies the records of the input file into the configured
// transactions table, creating it if needed, so later runs can use the sql
// source. Records are committed in batches; a failure keeps earlier batches.
// It returns the number of records loaded.
func LoadTransactions(ctx context.Context, c *C.Configuration, fm filestore.FileManager, db *gorm.DB) (int, error) {
	logCtx := log.WithFields(log.Fields{"input": c.Input, "table": c.DBInfo.Table})

	if err := transaction.CreateTable(db, c.DBInfo.Table); err != nil {
		logCtx.WithError(err).Error("Failed to create transactions table.")
		return 0, err
	}

	dir, name := U.SplitFilePath(c.Input)
	src := transaction.NewFileSourceFromManager(fm, dir, name)
	defer src.Close()
	if err := src.Reset(); err != nil {
		return 0, err
	}

	loaded := 0
	batch := make([]transaction.Record, 0, loadBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := transaction.InsertRecords(db, c.DBInfo.Table, batch); err != nil {
			return err
		}
		loaded += len(batch)
		batch = batch[:0]
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to read transactions.")
			return loaded, errors.Wrap(err, "failed loading transactions")
		}
		batch = append(batch, rec)
		if len(batch) == loadBatchSize {
			if err := flush(); err != nil {
				return loaded, err
			}
		}
	}
	if err := flush(); err != nil {
		return loaded, err
	}
	logCtx.WithField("records", loaded).Info("Loaded transactions.")
	return loaded, nil
}
