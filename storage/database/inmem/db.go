// Package inmemdb is the process-lifetime entity store: one
// mutex-guarded table per collection, append-only apart from message
// read-marking, reset to seed data on restart.
package inmemdb

import (
	"sync"

	"github.com/darasoft/shule/core/message"
	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
)

type (
	DB struct {
		user    *userTable
		school  *schoolTables
		message *messageTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	schoolTables struct {
		students    map[string]*school.Student
		parents     map[string]*school.Parent
		teachers    map[string]*school.Teacher
		principals  map[string]*school.Principal
		classes     map[string]*school.Class
		assignments map[string]*school.Assignment
		grades      map[string]*school.Grade
		attendance  map[string]*school.Attendance
		mutex       sync.RWMutex
	}

	messageTable struct {
		table map[string]*message.Message
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		school: &schoolTables{
			students:    make(map[string]*school.Student),
			parents:     make(map[string]*school.Parent),
			teachers:    make(map[string]*school.Teacher),
			principals:  make(map[string]*school.Principal),
			classes:     make(map[string]*school.Class),
			assignments: make(map[string]*school.Assignment),
			grades:      make(map[string]*school.Grade),
			attendance:  make(map[string]*school.Attendance),
		},
		message: &messageTable{table: make(map[string]*message.Message)},
	}
	return db, nil
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return cp
}
