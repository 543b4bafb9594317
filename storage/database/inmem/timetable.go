package inmemdb

import (
	"context"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

type timetableRepository struct {
	store *timetable.Store
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) *timetableRepository {
	return &timetableRepository{store: db.timetable}
}

func (repo *timetableRepository) CreateEntry(_ context.Context, e timetable.Entry, _ ...core.DBExecutor) (timetable.Entry, error) {
	id, err := repo.store.Add(e)
	if err != nil {
		return timetable.Entry{}, err
	}
	return repo.store.Get(id)
}

func (repo *timetableRepository) UpdateEntry(_ context.Context, e timetable.Entry, _ ...core.DBExecutor) (timetable.Entry, error) {
	if err := repo.store.Update(e.ID, e); err != nil {
		return timetable.Entry{}, err
	}
	return repo.store.Get(e.ID)
}

func (repo *timetableRepository) DeleteEntry(_ context.Context, id int64, _ ...core.DBExecutor) error {
	return repo.store.Remove(id)
}

func (repo *timetableRepository) GetEntry(_ context.Context, id int64, _ ...core.DBExecutor) (timetable.Entry, error) {
	return repo.store.Get(id)
}

func (repo *timetableRepository) QueryEntries(
	_ context.Context,
	filter timetable.QueryFilter,
	ordering []core.DBOrdering,
	_ ...core.DBExecutor,
) ([]timetable.Entry, error) {
	return repo.store.Query(filter, ordering), nil
}

// LockScope is a no-op: the Store validates every mutation under its own lock.
func (repo *timetableRepository) LockScope(context.Context, timetable.Scope, ...core.DBExecutor) error {
	return nil
}
