package appfs

import (
	"io/fs"
	"testing"
)

func TestFS(t *testing.T) {
	files := []string{
		"migrations/00001_create_timetable_entries.sql",
		"templates/email/_base.txt",
		"templates/email/_base.gohtml",
		"templates/email/timetable_changed.txt",
		"templates/email/timetable_changed.gohtml",
	}
	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			fi, err := fs.Stat(FS, name)
			if err != nil {
				t.Fatalf("fs.Stat() error = %v", err)
			}
			if fi.Size() == 0 {
				t.Errorf("%s is empty", name)
			}
		})
	}
}
