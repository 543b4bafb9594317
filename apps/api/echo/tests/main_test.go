package tests

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/apps/api/echo"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
	appfs "github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/fs"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/services/email"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/services/logger"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/storage/database/inmem"
)

var (
	conf    *core.Config
	app     *Server
	memDB   *inmemdb.DB
	ttSvc   *timetable.Service
	mailSvc *emailsvc.ConsoleServiceMock

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "entry not found, refresh the timetable"}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	conf.Timetable.NotifyEmails = []string{"registrar@test.cd"}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	// set up DB & repos
	memDB = inmemdb.Open(conf)
	repo := inmemdb.NewTimetableRepository(memDB)

	// set up services
	mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	var err error
	ttSvc, err = timetable.NewService(nil, repo, timetable.NewMailNotifier(mailSvc, conf, logger), conf)
	if err != nil {
		fmt.Printf("timetable.NewService(): %v", err)
		os.Exit(1)
	}

	// set up server
	app = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		TimetableSvc: ttSvc,
		Validate:     validate,
		Translator:   translator,
	})

	os.Exit(m.Run())
}

func resetDB() {
	memDB.Reset()
	mailSvc.Reset()
}
