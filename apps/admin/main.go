package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	logsvc "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/services/logger"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/inmem"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	rbLogger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rbLogger.Enable(false)
	logger = rbLogger

	// set up DB & service
	var (
		db    *sql.DB
		ttSvc *timetable.Service
		err   error
	)
	if conf.Database.InMemory {
		ttSvc, err = timetable.NewService(nil, inmemdb.NewTimetableRepository(inmemdb.Open(conf)), nil, conf)
	} else {
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(context.Background(), db))
		ttSvc, err = timetable.NewService(db, sqlxrepos.NewTimetableRepository(db), nil, conf)
	}
	errAndDie(err)

	// start CLI
	cli := commandLine{
		conf:  conf,
		db:    db,
		ttSvc: ttSvc,
		out:   os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		if db != nil {
			_ = db.Close()
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal("admin setup failed", err)
	}
}
