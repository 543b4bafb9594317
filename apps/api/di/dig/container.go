package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/apps/api/echo"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	emailsvc "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/services/email"
	logsvc "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/services/logger"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/inmem"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/sqlx"
)

const setUpDBTimeout = 30 * time.Second

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParam struct {
	dig.In
	Conf         *core.Config
	Logger       core.Logger
	TimetableSvc *timetable.Service
	Validate     *validator.Validate
	Translator   ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

// newDB returns a nil *sql.DB when the in-memory storage is configured.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sql.DB {
	if conf.Database.InMemory {
		loggerParam.Logger.Info("using in-memory storage")
		return nil
	}

	setUp := func() (*sql.DB, error) {
		ctx, cancel := context.WithTimeout(context.Background(), setUpDBTimeout)
		defer cancel()

		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(ctx, db); err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newTimetableRepository(conf *core.Config, db *sql.DB) timetable.Repository {
	if db == nil {
		return inmemdb.NewTimetableRepository(inmemdb.Open(conf))
	}
	return sqlxrepos.NewTimetableRepository(db)
}

func newTimetableService(
	conf *core.Config,
	db *sql.DB,
	repo timetable.Repository,
	notifier timetable.Notifier,
) (*timetable.Service, error) {
	var txDB core.DB // must stay a nil interface for the in-memory storage
	if db != nil {
		txDB = db
	}
	return timetable.NewService(txDB, repo, notifier, conf)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(p ServerParam) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		TimetableSvc: p.TimetableSvc,
		Validate:     p.Validate,
		Translator:   p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTimetableRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(timetable.NewMailNotifier))
	must(c.Provide(newTimetableService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
