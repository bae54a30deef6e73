// Package inmemdb keeps users and surveys in memory. It backs the tests and the "inmem" database engine.
package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/core/user"
)

type (
	DB struct {
		user   *userTable
		survey *surveyTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	course struct {
		schoolID string
		students []string
	}

	surveyTable struct {
		sync.RWMutex
		table     map[string]*survey.Survey
		responses map[string][]survey.SurveyResponse // {surveyID: responses}
		courses   map[string]*course
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		survey: &surveyTable{
			table:     make(map[string]*survey.Survey),
			responses: make(map[string][]survey.SurveyResponse),
			courses:   make(map[string]*course),
		},
	}
}
