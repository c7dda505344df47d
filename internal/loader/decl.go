// Package loader reads application declarations from YAML or HCL files and
// builds the input graph consumed by the analysis engine.
//
// Both formats decode into the same intermediate declaration, so they share
// one set of conversion rules:
//
//   - a resource access is written "name" for exclusive access and "&name"
//     for shared access
//   - an init routine without a claims list takes every late resource no
//     other core claims
//   - a software task without a capacity gets core.DefaultCapacity
//
// Load does not validate the result. Call Validate before analysis.
package loader

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// appDecl is the format-independent declaration of an application.
type appDecl struct {
	Name      string
	Cores     int
	Resources []resourceDecl
	Inits     []initDecl
	Idles     []routineDecl
	Hardware  []taskDecl
	Software  []taskDecl
}

type resourceDecl struct {
	Name string
	Type string
	Late bool
}

type routineDecl struct {
	Core      int
	Resources []string
	Spawns    []string
	Schedules []string
}

type initDecl struct {
	routineDecl
	// Claims is nil when the claims list was omitted.
	Claims *[]string
}

type taskDecl struct {
	routineDecl
	Name     string
	Priority int
	Binds    string
	Capacity int
	Inputs   []string
}

// ParseAccess converts "name" or "&name" into an access. A "mode:name"
// prefix form ("shared:cfg", "exclusive:buf") is also accepted.
func ParseAccess(s string) (core.Access, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "&"); ok {
		return accessOf(strings.TrimSpace(rest), core.Shared)
	}
	if mode, name, ok := strings.Cut(s, ":"); ok {
		m, err := core.ParseAccessMode(strings.TrimSpace(mode))
		if err != nil {
			return core.Access{}, err
		}
		return accessOf(strings.TrimSpace(name), m)
	}
	return accessOf(s, core.Exclusive)
}

func accessOf(name string, mode core.AccessMode) (core.Access, error) {
	if name == "" {
		return core.Access{}, fmt.Errorf("empty resource name")
	}
	return core.Access{Resource: name, Mode: mode}, nil
}

func (r routineDecl) accesses() ([]core.Access, error) {
	out := make([]core.Access, 0, len(r.Resources))
	for _, s := range r.Resources {
		a, err := ParseAccess(s)
		if err != nil {
			return nil, fmt.Errorf("resource access %q: %w", s, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r routineDecl) routine() (core.Routine, error) {
	if r.Core < 0 || r.Core > 255 {
		return core.Routine{}, fmt.Errorf("core %d out of range", r.Core)
	}
	accesses, err := r.accesses()
	if err != nil {
		return core.Routine{}, err
	}
	return core.Routine{
		CoreID:       core.Core(r.Core),
		Resources:    accesses,
		SpawnList:    r.Spawns,
		ScheduleList: r.Schedules,
	}, nil
}

func priorityOf(p int) (core.Priority, error) {
	if p < 0 || p > 255 {
		return 0, fmt.Errorf("priority %d out of range", p)
	}
	return core.Priority(p), nil
}

// build converts a declaration into an application. It rejects what cannot
// be represented at all; semantic checks belong to Validate.
func (d *appDecl) build() (*core.App, error) {
	cores := d.Cores
	if cores == 0 {
		cores = 1
	}
	if cores < 0 || cores > 256 {
		return nil, fmt.Errorf("cores %d out of range", d.Cores)
	}
	app := core.NewApp(d.Name, cores)

	for _, r := range d.Resources {
		if r.Name == "" {
			return nil, fmt.Errorf("resource without a name")
		}
		if _, dup := app.Resources[r.Name]; dup {
			return nil, fmt.Errorf("resource %s declared twice", r.Name)
		}
		app.AddResource(&core.Resource{Name: r.Name, Type: r.Type, Late: r.Late})
	}

	for _, decl := range d.Inits {
		routine, err := decl.routine()
		if err != nil {
			return nil, fmt.Errorf("init on core %d: %w", decl.Core, err)
		}
		if _, dup := app.Inits[routine.CoreID]; dup {
			return nil, fmt.Errorf("init on core %d declared twice", decl.Core)
		}
		boot := &core.Init{Routine: routine}
		if decl.Claims == nil {
			boot.ClaimsRest = true
		} else {
			boot.Claims = *decl.Claims
		}
		app.AddContext(boot)
	}

	for _, decl := range d.Idles {
		routine, err := decl.routine()
		if err != nil {
			return nil, fmt.Errorf("idle on core %d: %w", decl.Core, err)
		}
		if _, dup := app.Idles[routine.CoreID]; dup {
			return nil, fmt.Errorf("idle on core %d declared twice", decl.Core)
		}
		app.AddContext(&core.Idle{Routine: routine})
	}

	names := make(map[string]bool)
	for _, decl := range d.Hardware {
		task, err := decl.task(names)
		if err != nil {
			return nil, err
		}
		app.AddContext(&core.HardwareTask{Task: task, Binds: decl.Binds})
	}
	for _, decl := range d.Software {
		task, err := decl.task(names)
		if err != nil {
			return nil, err
		}
		if decl.Capacity < 0 {
			return nil, fmt.Errorf("task %s: negative capacity %d", decl.Name, decl.Capacity)
		}
		app.AddContext(&core.SoftwareTask{
			Task:     task,
			Inputs:   decl.Inputs,
			Capacity: uint(decl.Capacity),
		})
	}

	return app, nil
}

func (d taskDecl) task(seen map[string]bool) (core.Task, error) {
	if d.Name == "" {
		return core.Task{}, fmt.Errorf("task without a name")
	}
	if seen[d.Name] {
		return core.Task{}, fmt.Errorf("task %s declared twice", d.Name)
	}
	seen[d.Name] = true

	routine, err := d.routine()
	if err != nil {
		return core.Task{}, fmt.Errorf("task %s: %w", d.Name, err)
	}
	prio, err := priorityOf(d.Priority)
	if err != nil {
		return core.Task{}, fmt.Errorf("task %s: %w", d.Name, err)
	}
	return core.Task{Routine: routine, TaskName: d.Name, Prio: prio}, nil
}
