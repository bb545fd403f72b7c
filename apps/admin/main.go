package main

import (
	"context"
	"log"
	"os"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/services/logger"
	"github.com/bhavyajain7773/ATF-Design/storage"
	"github.com/bhavyajain7773/ATF-Design/storage/database"
	"github.com/bhavyajain7773/ATF-Design/storage/database/sqlx"
)

var logger *logsvc.RollbarLogger

func main() {
	defer os.Exit(0)

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	if conf.Storage.Engine == database.EngineMemory {
		logger.Fatal("the admin CLI needs a persistent storage engine")
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(context.Background(), db, 10))

	seed, err := course.SeedCatalog()
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:     db,
		store:  storage.NewStore(sqlxrepos.NewRecordRepository(db), logger, seed, conf.Storage.Quota),
		conf:   conf,
		logger: logger,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
