package script

import (
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/coroutines/pkg/steps"
)

// Vars holds the numeric variables of a running program. Steps write to it
// from the tick goroutine while readers such as the status API take
// snapshots, so every access is locked.
type Vars struct {
	mu     sync.RWMutex
	values map[string]float64
}

// NewVars copies initial into a new variable set.
func NewVars(initial map[string]float64) *Vars {
	v := &Vars{values: make(map[string]float64, len(initial))}
	maps.Copy(v.values, initial)
	return v
}

// Get returns the value of name and whether it exists.
func (v *Vars) Get(name string) (float64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	x, ok := v.values[name]
	return x, ok
}

// Set assigns name, declaring it if needed.
func (v *Vars) Set(name string, x float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[name] = x
}

// Names returns the variable names in sorted order.
func (v *Vars) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Sorted(maps.Keys(v.values))
}

// Snapshot returns a copy of every variable.
func (v *Vars) Snapshot() map[string]float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.values)
}

// Target exposes one variable to the animation steps.
func (v *Vars) Target(name string) steps.Target[float64] {
	return varTarget{vars: v, name: name}
}

type varTarget struct {
	vars *Vars
	name string
}

func (t varTarget) Get() float64 {
	x, _ := t.vars.Get(t.name)
	return x
}

func (t varTarget) Set(x float64) {
	t.vars.Set(t.name, x)
}
