package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	C "fpgrowth/config"
	"fpgrowth/filestore"
	"fpgrowth/patternstore"
	T "fpgrowth/task"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

const runCacheSize = 16

func main() {
	config, err := C.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := C.InitConf(config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fileManager, err := C.NewFileManager(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to init file manager.")
	}

	// Remote runs keep a local copy, disk runs are stored once.
	var cloudManager filestore.FileManager
	if config.Storage != C.StorageDisk {
		cloudManager = fileManager
	}
	ps, err := patternstore.New(runCacheSize, C.NewLocalFileManager(config), cloudManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to init pattern store.")
	}

	var db *gorm.DB
	if config.Source == C.SourceSQL {
		db, err = C.OpenDB(config)
		if err != nil {
			log.WithError(err).Fatal("Failed to init DB.")
		}
		defer db.Close()
	}

	status, err := T.PatternMine(ctx, config, fileManager, ps, db, os.Stdout)
	if err != nil {
		log.WithError(err).Error("Pattern mining failed.")
		stop()
		os.Exit(1)
	}
	log.WithFields(log.Fields(status)).Info("Successfully mined patterns.")
}
