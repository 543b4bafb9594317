package timetable

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

type (
	// Repository is the persistence collaborator of the Service.
	// exec, when given, is the transaction the operation must run in.
	Repository interface {
		CreateEntry(ctx context.Context, e Entry, exec ...core.DBExecutor) (Entry, error)
		// UpdateEntry replaces the entry identified by e.ID.
		UpdateEntry(ctx context.Context, e Entry, exec ...core.DBExecutor) (Entry, error)
		DeleteEntry(ctx context.Context, id int64, exec ...core.DBExecutor) error
		GetEntry(ctx context.Context, id int64, exec ...core.DBExecutor) (Entry, error)
		QueryEntries(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Entry, error)
		// LockScope serializes the mutations of a scope until the end of the transaction.
		LockScope(ctx context.Context, scope Scope, exec ...core.DBExecutor) error
	}

	Service struct {
		db        core.DB // nil when the repository is not transactional
		repo      Repository
		validator Validator
		projector *Projector
		notifier  Notifier
		nowFunc   func() time.Time
	}
)

// NewService returns a timetable Service. db may be nil for in-memory repositories.
func NewService(db core.DB, repo Repository, notifier Notifier, conf *core.Config) (*Service, error) {
	axis, err := AxisFromConfig(conf)
	if err != nil {
		return nil, errors.Wrap(err, "parsing timetable window")
	}
	projector, err := NewProjector(axis)
	if err != nil {
		return nil, errors.Wrap(err, "creating grid projector")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		db:        db,
		repo:      repo,
		validator: ValidatorFromConfig(conf),
		projector: projector,
		notifier:  notifier,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// AxisFromConfig returns the configured visible window, DefaultAxis fields filling the blanks.
func AxisFromConfig(conf *core.Config) (Axis, error) {
	def := DefaultAxis()
	start, end, gran := conf.Timetable.WindowStart, conf.Timetable.WindowEnd, conf.Timetable.Granularity
	if start == "" {
		start = def.Start.String()
	}
	if end == "" {
		end = def.End.String()
	}
	if gran == 0 {
		gran = def.Granularity
	}
	return ParseAxis(start, end, gran)
}

func ValidatorFromConfig(conf *core.Config) Validator {
	return NewValidator(conf.Timetable.Granularity, conf.Timetable.CheckRooms)
}

func (svc *Service) Axis() Axis { return svc.projector.Axis() }

// inTx runs fn in a transaction, or directly when the Service has no DB.
func (svc *Service) inTx(ctx context.Context, fn func(exec ...core.DBExecutor) error) error {
	if svc.db == nil {
		return fn()
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// lockScopes locks every distinct scope in a stable order, so that two moves never deadlock.
func (svc *Service) lockScopes(ctx context.Context, scopes []Scope, exec ...core.DBExecutor) error {
	keys := make(map[string]Scope, len(scopes))
	for _, s := range scopes {
		keys[ScopeKey(s)] = s
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		if err := svc.repo.LockScope(ctx, keys[k], exec...); err != nil {
			return errors.Wrapf(err, "locking scope %s", k)
		}
	}
	return nil
}

// check validates e against the current entries of its scope & day.
func (svc *Service) check(ctx context.Context, e Entry, exec ...core.DBExecutor) error {
	existing, err := svc.repo.QueryEntries(ctx, ScopeFilter(e.Scope, e.Day), nil, exec...)
	if err != nil {
		return errors.Wrap(err, "querying scope entries")
	}
	return svc.validator.Validate(e, existing)
}

func (svc *Service) Create(ctx context.Context, ne NewEntry) (Entry, error) {
	e := ne.entry()
	if !e.Scope.Valid() {
		return Entry{}, invalidScopeError(e.Scope)
	}
	now := svc.nowFunc()
	e.CreatedAt = now
	e.UpdatedAt = now

	var created Entry
	err := svc.inTx(ctx, func(exec ...core.DBExecutor) error {
		if err := svc.lockScopes(ctx, []Scope{e.Scope}, exec...); err != nil {
			return err
		}
		if err := svc.check(ctx, e, exec...); err != nil {
			return err
		}

		var err error
		created, err = svc.repo.CreateEntry(ctx, e, exec...)
		return errors.Wrap(err, "creating entry")
	})
	if err != nil {
		return Entry{}, err
	}

	svc.notifier.Notify(ctx, Change{Action: ActionCreated, Entry: created})
	return created, nil
}

// lockEntry reads entry id and locks its scope along with extra.
// A concurrent move may change the scope between the read & the lock, so the entry is read again
// until the scope it is in is held.
func (svc *Service) lockEntry(ctx context.Context, id int64, extra []Scope, exec ...core.DBExecutor) (Entry, error) {
	locked := make(map[string]bool)
	for {
		e, err := svc.repo.GetEntry(ctx, id, exec...)
		if err != nil {
			return Entry{}, err
		}

		pending := make([]Scope, 0, len(extra)+1)
		for _, s := range append([]Scope{e.Scope}, extra...) {
			if !locked[ScopeKey(s)] {
				pending = append(pending, s)
			}
		}
		if len(pending) == 0 {
			return e, nil
		}
		if err = svc.lockScopes(ctx, pending, exec...); err != nil {
			return Entry{}, err
		}
		for _, s := range pending {
			locked[ScopeKey(s)] = true
		}
	}
}

func (svc *Service) Update(ctx context.Context, id int64, ue UpdateEntry) (Entry, error) {
	scope := NewEntry(ue).Scope
	if !scope.Valid() {
		return Entry{}, invalidScopeError(scope)
	}

	var orig, updated Entry
	err := svc.inTx(ctx, func(exec ...core.DBExecutor) error {
		var err error
		if orig, err = svc.lockEntry(ctx, id, []Scope{scope}, exec...); err != nil {
			return err
		}
		e := ue.apply(orig)
		e.UpdatedAt = svc.nowFunc()
		if err = svc.check(ctx, e, exec...); err != nil {
			return err
		}

		updated, err = svc.repo.UpdateEntry(ctx, e, exec...)
		return errors.Wrap(err, "updating entry")
	})
	if err != nil {
		return Entry{}, err
	}

	svc.notifier.Notify(ctx, Change{Action: ActionUpdated, Entry: updated, Previous: &orig})
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	var orig Entry
	err := svc.inTx(ctx, func(exec ...core.DBExecutor) error {
		var err error
		if orig, err = svc.lockEntry(ctx, id, nil, exec...); err != nil {
			return err
		}
		return svc.repo.DeleteEntry(ctx, id, exec...)
	})
	if err != nil {
		return err
	}

	svc.notifier.Notify(ctx, Change{Action: ActionDeleted, Entry: orig})
	return nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Entry, error) {
	return svc.repo.GetEntry(ctx, id)
}

// ListByScope returns the scope's entries in chronological order.
func (svc *Service) ListByScope(ctx context.Context, scope Scope) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx, ScopeFilter(scope), nil)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx, filter, ordering)
}

// Grid projects the weekly grid of a class scope.
func (svc *Service) Grid(ctx context.Context, scope Scope) (Grid, error) {
	if !scope.Valid() {
		return Grid{}, invalidScopeError(scope)
	}
	entries, err := svc.ListByScope(ctx, scope)
	if err != nil {
		return Grid{}, errors.Wrap(err, "listing scope entries")
	}
	return svc.projector.Project(entries), nil
}

// TeacherGrid projects a teacher's week across every scope they teach in.
func (svc *Service) TeacherGrid(ctx context.Context, teacherID int64) (Grid, error) {
	entries, err := svc.repo.QueryEntries(ctx, QueryFilter{TeacherID: teacherID}, nil)
	if err != nil {
		return Grid{}, errors.Wrap(err, "querying teacher entries")
	}
	return svc.projector.Project(entries), nil
}

func invalidScopeError(s Scope) error {
	if s.ProgramID <= 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "program_id", Error: "this field is required"})
	}
	return core.NewValidationError(nil, core.FieldError{Field: "session_id", Error: scopeText})
}

// ScopeKey is the canonical text form of a scope, used as lock key.
func ScopeKey(s Scope) string {
	return fmt.Sprintf("timetable:%d:%d:%d:%d", s.ProgramID, s.SessionID, s.SectionID, s.Semester)
}
