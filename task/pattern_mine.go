package task

import (
	"bytes"
	"context"
	"io"

	C "fpgrowth/config"
	"fpgrowth/filestore"
	fp "fpgrowth/fptree"
	"fpgrowth/patternstore"
	"fpgrowth/report"
	"fpgrowth/transaction"
	U "fpgrowth/util"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// openSource returns the transaction source configured in c. db is only
// used for the sql source.
func openSource(c *C.Configuration, fm filestore.FileManager, db *gorm.DB) (transaction.Source, error) {
	switch c.Source {
	case C.SourceSQL:
		if db == nil {
			return nil, errors.New("sql source needs a database connection")
		}
		return transaction.NewSQLSource(db, c.DBInfo.Table), nil
	case C.SourceFile:
		dir, name := U.SplitFilePath(c.Input)
		return transaction.NewFileSourceFromManager(fm, dir, name), nil
	}
	return nil, errors.Errorf("unknown source %s", c.Source)
}

// loadTree builds the tree from the configured source, or reads a tree
// serialized by an earlier run when TreeFile is set.
func loadTree(ctx context.Context, c *C.Configuration, fm filestore.FileManager, db *gorm.DB) (*fp.Tree, error) {
	if c.TreeFile != "" {
		dir, name := U.SplitFilePath(c.TreeFile)
		return fp.CreateTreeFromFile(fm, dir, name)
	}
	src, err := openSource(c, fm, db)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return fp.BuildTree(ctx, src, c.Support)
}

// PatternMine runs one mining job: it builds the tree, mines it, writes the
// report to c.Output and stores the patterns under the run id. ps may be nil
// to skip storing. With c.Verbose the tree is written to stdout as a dot
// graph before mining.
func PatternMine(ctx context.Context, c *C.Configuration, fm filestore.FileManager,
	ps *patternstore.PatternStore, db *gorm.DB, stdout io.Writer) (map[string]interface{}, error) {

	runID := c.RunID
	if runID == "" {
		runID = U.NewRunID()
	}
	logCtx := log.WithFields(log.Fields{
		"run":       runID,
		"support":   c.Support,
		"threshold": c.Threshold,
		"source":    c.Source,
	})

	status := map[string]interface{}{"run_id": runID}
	if c.TreeFile != "" || c.Source == C.SourceFile {
		inputFile := c.Input
		if c.TreeFile != "" {
			inputFile = c.TreeFile
		}
		dir, name := U.SplitFilePath(inputFile)
		if size, err := fm.GetObjectSize(dir, name); err == nil {
			status["input_bytes"] = size
			logCtx.WithFields(log.Fields{"file": inputFile, "bytes": size}).Info("Reading input.")
		} else {
			logCtx.WithError(err).WithField("file", inputFile).Warn("Unable to stat input.")
		}
	}

	tree, err := loadTree(ctx, c, fm, db)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build fp-tree.")
		return nil, err
	}
	logCtx.WithFields(log.Fields{
		"transactions": tree.Transactions,
		"items":        tree.Order.Len(),
		"nodes":        tree.NodeCount(),
	}).Info("Built fp-tree.")

	if c.Verbose && stdout != nil {
		if err := tree.WriteDot(stdout); err != nil {
			return nil, err
		}
	}

	patterns, err := fp.Mine(ctx, tree, fp.WithWorkers(c.Workers))
	if err != nil {
		logCtx.WithError(err).Error("Failed to mine fp-tree.")
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, patterns, c.Format); err != nil {
		return nil, err
	}
	outDir, outName := U.SplitFilePath(c.Output)
	if err := fm.Create(outDir, outName, bytes.NewReader(buf.Bytes())); err != nil {
		logCtx.WithError(err).Error("Failed to write report.")
		return nil, errors.Wrap(err, "failed to write report")
	}

	if ps != nil {
		if err := ps.Put(runID, patterns); err != nil {
			logCtx.WithError(err).Error("Failed to store patterns.")
			return nil, err
		}
	}

	if c.SaveTree {
		path, name := fm.GetTreeFilePathAndName(runID)
		if err := fp.SerializeTreeToFile(fm, path, name, tree); err != nil {
			return nil, err
		}
		if size, err := fm.GetObjectSize(path, name); err == nil {
			status["tree_bytes"] = size
		}
	}

	status["transactions"] = tree.Transactions
	status["items"] = tree.Order.Len()
	status["nodes"] = tree.NodeCount()
	status["patterns"] = len(patterns)
	logCtx.WithFields(log.Fields(status)).Info("Pattern mining done.")
	return status, nil
}

// ShowPatterns writes the k most frequent patterns of a stored run to w, all
// of them when k is 0.
func ShowPatterns(ps *patternstore.PatternStore, runID string, k int, format string, w io.Writer) error {
	patterns, err := ps.Get(runID)
	if err != nil {
		return err
	}
	return report.WriteSorted(w, report.Top(patterns, k), format)
}
