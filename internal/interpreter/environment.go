package interpreter

import (
	"slices"

	"golang.org/x/exp/maps"

	"loq/internal/errors"
)

// Environment is the single flat variable scope of an interpreter.
type Environment struct {
	values map[string]float64
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]float64)}
}

// Define binds name, replacing any earlier value.
func (e *Environment) Define(name string, value float64) {
	e.values[name] = value
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (float64, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return 0, errors.NewReferenceError(name)
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]float64 {
	return maps.Clone(e.values)
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := maps.Keys(e.values)
	slices.Sort(keys)
	return keys
}

// Len reports the number of bindings.
func (e *Environment) Len() int {
	return len(e.values)
}

// Clear drops every binding.
func (e *Environment) Clear() {
	clear(e.values)
}
