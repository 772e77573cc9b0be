package devtools

import "carousel/internal/session"

type Demo interface {
	Names() []string
	Resolve(name string) Scenario
	Run(s *session.Session, sc Scenario) Result
	WriteState(dir string, r Result) error
}
