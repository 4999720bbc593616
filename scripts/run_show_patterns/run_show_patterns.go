package main

import (
	"fmt"
	"os"

	C "fpgrowth/config"
	"fpgrowth/filestore"
	"fpgrowth/patternstore"
	T "fpgrowth/task"

	log "github.com/sirupsen/logrus"
)

func main() {
	config, err := C.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if config.RunID == "" {
		fmt.Fprintln(os.Stderr, "--run_id is required")
		os.Exit(2)
	}
	if err := C.InitConf(config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var cloudManager filestore.FileManager
	if config.Storage != C.StorageDisk {
		cloudManager, err = C.NewFileManager(config)
		if err != nil {
			log.WithError(err).Fatal("Failed to init file manager.")
		}
	}
	ps, err := patternstore.New(1, C.NewLocalFileManager(config), cloudManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to init pattern store.")
	}

	if err := T.ShowPatterns(ps, config.RunID, config.TopK, config.Format, os.Stdout); err != nil {
		log.WithError(err).WithField("run", config.RunID).Error("Failed to show patterns.")
		os.Exit(1)
	}
}
