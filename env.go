package consolehttp

import (
	"errors"
	"fmt"
	"slices"
)

// Setting is one change to the environment a session streams in.
//
// Apply performs the change and returns a func restoring the previous state.
// OutputDependent settings can only be restored before any output reached the
// client (response headers, for instance); once output was committed their
// restore is skipped.
type Setting struct {
	Name            string
	OutputDependent bool
	Apply           func() (restore func() error, err error)
}

type applied struct {
	setting Setting
	restore func() error
}

// Environment is a set of applied settings, released with Release.
type Environment struct {
	applied  []applied
	released bool
}

// Acquire applies settings in order. When one fails, the settings already
// applied are restored in reverse order and the failure is returned wrapped in
// ErrConfiguration.
func Acquire(settings ...Setting) (*Environment, error) {
	env := &Environment{}
	for _, s := range settings {
		restore, err := s.Apply()
		if err != nil {
			cause := fmt.Errorf("%w: apply %s: %w", ErrConfiguration, s.Name, err)
			return nil, errors.Join(cause, env.Release(false))
		}
		env.applied = append(env.applied, applied{setting: s, restore: restore})
	}
	return env, nil
}

// Release restores every applied setting in reverse order, skipping output
// dependent ones when committed is true. It attempts every restore and joins
// the failures. Releasing twice is a no-op.
func (e *Environment) Release(committed bool) error {
	if e == nil || e.released {
		return nil
	}
	e.released = true

	var errs []error
	for _, a := range slices.Backward(e.applied) {
		if a.restore == nil || (committed && a.setting.OutputDependent) {
			continue
		}
		if err := a.restore(); err != nil {
			errs = append(errs, fmt.Errorf("%w: restore %s: %w", ErrConfiguration, a.setting.Name, err))
		}
	}
	return errors.Join(errs...)
}
