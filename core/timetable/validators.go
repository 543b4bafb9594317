package timetable

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "day must be one of Monday to Saturday"

	entryTypeTag  = "entrytype"
	entryTypeText = "type must be one of lecture, lab, tutorial or exam"

	roomTag   = "room"
	roomText  = "room may only contain letters, digits, spaces and . / - _"
	roomRegex = regexp.MustCompile(`^[\w\s./-]+$`)

	scopeTag  = "scope"
	scopeText = "session_id, section_id and semester must be set together"
)

// InitValidators registers the timetable validation rules & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(entryTypeTag, entryTypeValidation)
	core.RegisterCustomTranslation(validate, translator, entryTypeTag, entryTypeText)

	_ = validate.RegisterValidation(roomTag, roomValidation)
	core.RegisterCustomTranslation(validate, translator, roomTag, roomText)

	validate.RegisterStructValidation(scopeStructValidation, Scope{})
	core.RegisterCustomTranslation(validate, translator, scopeTag, scopeText)
}

func weekdayValidation(fl validator.FieldLevel) bool {
	return Weekday(fl.Field().Int()).Valid()
}

func entryTypeValidation(fl validator.FieldLevel) bool {
	typ := EntryType(fl.Field().String())
	for _, t := range EntryTypes {
		if typ == t {
			return true
		}
	}
	return false
}

func roomValidation(fl validator.FieldLevel) bool {
	return roomRegex.MatchString(fl.Field().String())
}

// scopeStructValidation rejects mixed scope shapes: a partially subdivided program.
func scopeStructValidation(sl validator.StructLevel) {
	s := sl.Current().Interface().(Scope)
	if !s.Subdivided() || s.complete() {
		return
	}
	if s.SessionID == 0 {
		sl.ReportError(s.SessionID, "session_id", "SessionID", scopeTag, "")
	}
	if s.SectionID == 0 {
		sl.ReportError(s.SectionID, "section_id", "SectionID", scopeTag, "")
	}
	if s.Semester == 0 {
		sl.ReportError(s.Semester, "semester", "Semester", scopeTag, "")
	}
}
