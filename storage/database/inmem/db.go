package inmemdb

import (
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

// DB holds the in-memory tables. It is not transactional: callers pass a nil core.DB to the services.
type DB struct {
	timetable *timetable.Store
}

func Open(conf *core.Config) *DB {
	return &DB{
		timetable: timetable.NewStore(timetable.ValidatorFromConfig(conf)),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.timetable.Reset()
}
