package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	C "fpgrowth/config"
	T "fpgrowth/task"

	log "github.com/sirupsen/logrus"
)

func main() {
	config, err := C.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// the table is the destination, the input file is still read
	config.Source = C.SourceSQL
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
	db, err := C.OpenDB(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to init DB.")
	}
	defer db.Close()

	loaded, err := T.LoadTransactions(ctx, config, fileManager, db)
	if err != nil {
		log.WithError(err).WithField("loaded", loaded).Error("Loading transactions failed.")
		db.Close()
		stop()
		os.Exit(1)
	}
	log.WithField("records", loaded).Info("Successfully loaded transactions.")
}
