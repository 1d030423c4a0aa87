package tariff

import (
	"fmt"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/touledger/touledger/pkg/types"
)

// Source loads the schedule selected on the command line.
type Source struct {
	path string
}

// Configured sets up the schedule source and registers its flags.
func Configured() *Source {
	s := &Source{}
	path := lflag.String("schedule", "", "Path to a JSON schedule description (empty uses the built-in TOU-DR schedule)")

	lflag.Do(func() {
		s.path = *path
	})

	return s
}

// Load reads and validates the selected schedule. With no path configured it
// returns the built-in TOU-DR schedule.
func (s *Source) Load() (types.Schedule, error) {
	if s.path == "" {
		return types.DefaultTOUDR(), nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return types.Schedule{}, fmt.Errorf("failed to read schedule file %s: %w", s.path, err)
	}
	sched, err := types.ParseSchedule(data)
	if err != nil {
		return types.Schedule{}, fmt.Errorf("failed to parse schedule file %s: %w", s.path, err)
	}
	return sched, nil
}
