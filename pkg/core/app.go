package core

import "sort"

// App is the input graph: a validated description of every core, context,
// resource and message edge of one application.
//
// An App is built once by a loader and treated as immutable afterwards.
type App struct {
	Name string
	// Cores is the number of cores; 1 is the common case.
	Cores int

	Inits         map[Core]*Init
	Idles         map[Core]*Idle
	HardwareTasks map[string]*HardwareTask
	SoftwareTasks map[string]*SoftwareTask
	Resources     map[string]*Resource
}

// NewApp creates an empty application with the given number of cores.
func NewApp(name string, cores int) *App {
	if cores < 1 {
		cores = 1
	}
	return &App{
		Name:          name,
		Cores:         cores,
		Inits:         make(map[Core]*Init),
		Idles:         make(map[Core]*Idle),
		HardwareTasks: make(map[string]*HardwareTask),
		SoftwareTasks: make(map[string]*SoftwareTask),
		Resources:     make(map[string]*Resource),
	}
}

// AddContext registers a context under its kind. A later context with the
// same key replaces the earlier one.
func (a *App) AddContext(c Context) {
	switch c := c.(type) {
	case *Init:
		a.Inits[c.Core()] = c
	case *Idle:
		a.Idles[c.Core()] = c
	case *HardwareTask:
		a.HardwareTasks[c.Name()] = c
	case *SoftwareTask:
		a.SoftwareTasks[c.Name()] = c
	}
}

// AddResource registers a resource.
func (a *App) AddResource(r *Resource) {
	a.Resources[r.Name] = r
}

// Contexts returns every context in a stable order: per core the init then
// the idle routine, followed by hardware tasks and software tasks, each
// sorted by name.
func (a *App) Contexts() []Context {
	var out []Context
	for c := 0; c < a.Cores; c++ {
		if boot, ok := a.Inits[Core(c)]; ok {
			out = append(out, boot)
		}
		if idle, ok := a.Idles[Core(c)]; ok {
			out = append(out, idle)
		}
	}
	for _, name := range sortedKeys(a.HardwareTasks) {
		out = append(out, a.HardwareTasks[name])
	}
	for _, name := range sortedKeys(a.SoftwareTasks) {
		out = append(out, a.SoftwareTasks[name])
	}
	return out
}

// Task returns the hardware or software task with the given name.
func (a *App) Task(name string) (Context, bool) {
	if t, ok := a.HardwareTasks[name]; ok {
		return t, true
	}
	if t, ok := a.SoftwareTasks[name]; ok {
		return t, true
	}
	return nil, false
}

// ResourceNames returns all resource names, sorted.
func (a *App) ResourceNames() []string {
	return sortedKeys(a.Resources)
}

// LateResources returns the names of all late resources, sorted.
func (a *App) LateResources() []string {
	var late []string
	for _, name := range sortedKeys(a.Resources) {
		if a.Resources[name].Late {
			late = append(late, name)
		}
	}
	return late
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
