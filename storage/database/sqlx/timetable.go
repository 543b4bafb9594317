package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

// postgres error codes
const (
	pgCheckViolation     = "23514"
	pgExclusionViolation = "23P01"

	intervalConstraint = "timetable_entries_interval_chk"
)

const (
	entryColumns = `id, subject_id, teacher_id, day, start_minute, end_minute, room,
		program_id, session_id, section_id, semester, entry_type, created_at, updated_at`

	insertEntryQuery = `INSERT INTO timetable_entries (
		subject_id, teacher_id, day, start_minute, end_minute, room,
		program_id, session_id, section_id, semester, entry_type, created_at, updated_at
	) VALUES (
		:subject_id, :teacher_id, :day, :start_minute, :end_minute, :room,
		:program_id, :session_id, :section_id, :semester, :entry_type, :created_at, :updated_at
	) RETURNING ` + entryColumns

	updateEntryQuery = `UPDATE timetable_entries SET
		subject_id = :subject_id, teacher_id = :teacher_id, day = :day,
		start_minute = :start_minute, end_minute = :end_minute, room = :room,
		program_id = :program_id, session_id = :session_id, section_id = :section_id, semester = :semester,
		entry_type = :entry_type, updated_at = :updated_at
	WHERE id = :id RETURNING ` + entryColumns

	selectEntriesQuery = `SELECT ` + entryColumns + ` FROM timetable_entries`

	deleteEntryQuery = `DELETE FROM timetable_entries WHERE id = $1`

	lockScopeQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

// orderColumns maps the orderable Entry fields to their columns.
var orderColumns = map[string]string{
	"id":         "id",
	"day":        "day",
	"start_time": "start_minute",
	"end_time":   "end_minute",
	"teacher_id": "teacher_id",
	"subject_id": "subject_id",
	"room":       "lower(room)",
	"created_at": "created_at",
}

type entryRow struct {
	ID          int64       `db:"id"`
	SubjectID   int64       `db:"subject_id"`
	TeacherID   int64       `db:"teacher_id"`
	Day         int         `db:"day"`
	StartMinute int         `db:"start_minute"`
	EndMinute   int         `db:"end_minute"`
	Room        null.String `db:"room"`
	ProgramID   int64       `db:"program_id"`
	SessionID   null.Int64  `db:"session_id"`
	SectionID   null.Int64  `db:"section_id"`
	Semester    null.Int    `db:"semester"`
	EntryType   string      `db:"entry_type"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func toRow(e timetable.Entry) entryRow {
	return entryRow{
		ID:          e.ID,
		SubjectID:   e.SubjectID,
		TeacherID:   e.TeacherID,
		Day:         int(e.Day),
		StartMinute: int(e.StartTime),
		EndMinute:   int(e.EndTime),
		Room:        null.NewString(e.Room, e.Room != ""),
		ProgramID:   e.ProgramID,
		SessionID:   null.NewInt64(e.SessionID, e.SessionID != 0),
		SectionID:   null.NewInt64(e.SectionID, e.SectionID != 0),
		Semester:    null.NewInt(e.Semester, e.Semester != 0),
		EntryType:   string(e.Type),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func (r entryRow) entry() timetable.Entry {
	return timetable.Entry{
		ID:        r.ID,
		SubjectID: r.SubjectID,
		TeacherID: r.TeacherID,
		Day:       timetable.Weekday(r.Day),
		StartTime: timetable.TimeSlot(r.StartMinute),
		EndTime:   timetable.TimeSlot(r.EndMinute),
		Room:      r.Room.String,
		Scope: timetable.Scope{
			ProgramID: r.ProgramID,
			SessionID: r.SessionID.Int64,
			SectionID: r.SectionID.Int64,
			Semester:  r.Semester.Int,
		},
		Type:      timetable.EntryType(r.EntryType),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type timetableRepository struct {
	exec core.DBExecutor
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(exec core.DBExecutor) *timetableRepository {
	return &timetableRepository{exec: exec}
}

func (repo timetableRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapErr maps postgres constraint violations & "no rows" to timetable errors.
func (repo timetableRepository) trapErr(ctx context.Context, err error, e timetable.Entry, msg string) error {
	if err == sql.ErrNoRows {
		return timetable.ErrNotFound
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch {
		case pqErr.Code == pgExclusionViolation:
			conflict, found := repo.findCollision(ctx, e)
			if !found {
				// unknown colliding row: report the candidate slot without an id
				conflict = e
				conflict.ID = 0
			}
			return &timetable.ConflictError{Entry: conflict, Dimension: timetable.DimensionTeacher}
		case pqErr.Code == pgCheckViolation && pqErr.Constraint == intervalConstraint:
			return &timetable.InvalidIntervalError{Start: e.StartTime, End: e.EndTime}
		}
	}
	return errors.Wrap(err, msg)
}

// findCollision looks up the committed entry that made e violate the teacher exclusion constraint.
// It runs outside of the caller's transaction, which is aborted by then.
func (repo timetableRepository) findCollision(ctx context.Context, e timetable.Entry) (timetable.Entry, bool) {
	if repo.exec == nil {
		return timetable.Entry{}, false
	}
	filter := timetable.ScopeFilter(e.Scope, e.Day)
	filter.TeacherID = e.TeacherID
	existing, err := repo.QueryEntries(ctx, filter, nil)
	if err != nil {
		return timetable.Entry{}, false
	}
	for _, o := range existing {
		if o.ID != e.ID && o.Overlaps(e) {
			return o, true
		}
	}
	return timetable.Entry{}, false
}

// bindQuery binds a named query to postgres placeholders.
// expand rewrites `IN (:list)` clauses: sqlx.In panics on invalid null.* values, so writes never expand.
func bindQuery(query string, arg interface{}, expand bool) (string, []interface{}, error) {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, errors.Wrap(err, "binding named query")
	}
	if expand {
		if q, args, err = sqlx.In(q, args...); err != nil {
			return "", nil, errors.Wrap(err, "expanding query")
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}

// query runs a bound query and scans every returned row.
func (repo timetableRepository) query(ctx context.Context, exec core.DBExecutor, q string, args []interface{}) ([]timetable.Entry, error) {
	rows, err := exec.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []entryRow
	if err = sqlx.StructScan(rows, &res); err != nil {
		return nil, errors.Wrap(err, "scanning entries")
	}
	entries := make([]timetable.Entry, 0, len(res))
	for _, r := range res {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (repo timetableRepository) queryOne(ctx context.Context, exec core.DBExecutor, query string, arg interface{}) (timetable.Entry, error) {
	q, args, err := bindQuery(query, arg, false)
	if err != nil {
		return timetable.Entry{}, err
	}
	entries, err := repo.query(ctx, exec, q, args)
	if err != nil {
		return timetable.Entry{}, err
	}
	if len(entries) == 0 {
		return timetable.Entry{}, sql.ErrNoRows
	}
	return entries[0], nil
}

func (repo timetableRepository) CreateEntry(ctx context.Context, e timetable.Entry, exec ...core.DBExecutor) (timetable.Entry, error) {
	created, err := repo.queryOne(ctx, repo.getExec(exec), insertEntryQuery, toRow(e))
	if err != nil {
		return timetable.Entry{}, repo.trapErr(ctx, err, e, "inserting entry")
	}
	return created, nil
}

func (repo timetableRepository) UpdateEntry(ctx context.Context, e timetable.Entry, exec ...core.DBExecutor) (timetable.Entry, error) {
	updated, err := repo.queryOne(ctx, repo.getExec(exec), updateEntryQuery, toRow(e))
	if err != nil {
		return timetable.Entry{}, repo.trapErr(ctx, err, e, "updating entry")
	}
	return updated, nil
}

func (repo timetableRepository) DeleteEntry(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, deleteEntryQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	if cnt == 0 {
		return timetable.ErrNotFound
	}
	return nil
}

func (repo timetableRepository) GetEntry(ctx context.Context, id int64, exec ...core.DBExecutor) (timetable.Entry, error) {
	e, err := repo.queryOne(ctx, repo.getExec(exec), selectEntriesQuery+" WHERE id = :id", map[string]interface{}{"id": id})
	if err != nil {
		return timetable.Entry{}, repo.trapErr(ctx, err, timetable.Entry{ID: id}, "getting entry")
	}
	return e, nil
}

func (repo timetableRepository) QueryEntries(
	ctx context.Context,
	filter timetable.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]timetable.Entry, error) {
	where, args := filterClauses(filter)
	query := selectEntriesQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderClause(ordering)

	q, qArgs, err := bindQuery(query, args, len(filter.IDs) > 0)
	if err != nil {
		return nil, err
	}
	entries, err := repo.query(ctx, repo.getExec(exec), q, qArgs)
	if err != nil {
		return nil, errors.Wrap(err, "querying entries")
	}
	return entries, nil
}

func (repo timetableRepository) LockScope(ctx context.Context, scope timetable.Scope, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx, lockScopeQuery, timetable.ScopeKey(scope))
	return errors.Wrap(err, "acquiring scope lock")
}

// filterClauses returns the WHERE clauses (AND-ed) & named args matching filter.
func filterClauses(filter timetable.QueryFilter) ([]string, map[string]interface{}) {
	where := make([]string, 0, 7)
	args := make(map[string]interface{}, 7)
	eq := func(col string, val interface{}) {
		where = append(where, col+" = :"+col)
		args[col] = val
	}

	if len(filter.IDs) > 0 {
		where = append(where, "id IN (:ids)")
		args["ids"] = filter.IDs
	}

	scope := filter.Scope()
	if filter.Exact {
		eq("program_id", scope.ProgramID)
		if scope.Subdivided() {
			eq("session_id", scope.SessionID)
			eq("section_id", scope.SectionID)
			eq("semester", scope.Semester)
		} else {
			where = append(where, "session_id IS NULL AND section_id IS NULL AND semester IS NULL")
		}
	} else {
		if scope.ProgramID != 0 {
			eq("program_id", scope.ProgramID)
		}
		if scope.SessionID != 0 {
			eq("session_id", scope.SessionID)
		}
		if scope.SectionID != 0 {
			eq("section_id", scope.SectionID)
		}
		if scope.Semester != 0 {
			eq("semester", scope.Semester)
		}
	}

	if filter.TeacherID != 0 {
		eq("teacher_id", filter.TeacherID)
	}
	if filter.Day != 0 {
		eq("day", int(filter.Day))
	}
	return where, args
}

// orderClause only lets known fields through, and always ends in chronological order.
func orderClause(ordering []core.DBOrdering) string {
	clauses := make([]string, 0, len(ordering)+3)
	for _, ord := range ordering {
		if col, ok := orderColumns[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	clauses = append(clauses, "day ASC", "start_minute ASC", "id ASC")
	return strings.Join(clauses, ", ")
}
