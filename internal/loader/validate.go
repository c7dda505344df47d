package loader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapsched/internal/analysis"
	"github.com/leapstack-labs/leapsched/pkg/core"
)

// Validate checks that app satisfies everything the analysis engine assumes
// about its input. It returns warnings for legal but suspicious declarations,
// and an error joining one core.Diagnostic per violation.
func Validate(app *core.App) ([]core.Diagnostic, error) {
	v := &validator{app: app}

	v.checkContexts()
	v.checkResources()
	v.checkBindings()
	v.checkLateClaims()
	v.checkUnused()

	if len(v.errs) == 0 {
		return v.warnings, nil
	}
	return v.warnings, errors.Join(v.errs...)
}

type validator struct {
	app      *core.App
	errs     []error
	warnings []core.Diagnostic
}

func (v *validator) fail(subject, format string, args ...any) {
	v.errs = append(v.errs, core.Diagnostic{
		Severity: core.SeverityError,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) warn(subject, format string, args ...any) {
	v.warnings = append(v.warnings, core.Diagnostic{
		Severity: core.SeverityWarning,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) checkContexts() {
	for _, ctx := range v.app.Contexts() {
		label := core.Label(ctx)

		if int(ctx.Core()) >= v.app.Cores {
			v.fail(label, "core %d does not exist (the application has %d)", ctx.Core(), v.app.Cores)
		}

		switch ctx.Kind() {
		case core.KindHardwareTask, core.KindSoftwareTask:
			if p, _ := ctx.Priority().Get(); p == 0 {
				v.fail(label, "priority 0 is reserved for idle")
			}
		}

		for _, access := range ctx.Accesses() {
			if _, ok := v.app.Resources[access.Resource]; !ok {
				v.fail(label, "accesses undeclared resource %s", access.Resource)
			}
		}
		for _, target := range ctx.Spawns() {
			if _, ok := v.app.SoftwareTasks[target]; !ok {
				v.fail(label, "spawns undeclared software task %s", target)
			}
		}
		for _, target := range ctx.Schedules() {
			if _, ok := v.app.SoftwareTasks[target]; !ok {
				v.fail(label, "schedules undeclared software task %s", target)
			}
		}
	}

	for name := range v.app.HardwareTasks {
		if _, dup := v.app.SoftwareTasks[name]; dup {
			v.fail("task "+name, "declared as both a hardware and a software task")
		}
	}
}

// checkResources enforces the sharing rules. Init accesses count for the
// core rule but not for the mode rule: init runs before any task, so its
// access never overlaps another.
func (v *validator) checkResources() {
	type usage struct {
		exclusiveCores map[core.Core]bool
		modes          map[core.AccessMode]bool
	}
	uses := make(map[string]*usage)

	for _, ctx := range v.app.Contexts() {
		for _, access := range ctx.Accesses() {
			res, ok := v.app.Resources[access.Resource]
			if !ok {
				continue
			}
			if ctx.Kind() == core.KindInit && res.Late {
				v.fail(core.Label(ctx), "accesses late resource %s before it is initialized", res.Name)
			}

			u := uses[res.Name]
			if u == nil {
				u = &usage{exclusiveCores: make(map[core.Core]bool), modes: make(map[core.AccessMode]bool)}
				uses[res.Name] = u
			}
			if access.Mode == core.Exclusive {
				u.exclusiveCores[ctx.Core()] = true
			}
			if ctx.Kind() != core.KindInit {
				u.modes[access.Mode] = true
			}
		}
	}

	for _, name := range v.app.ResourceNames() {
		u := uses[name]
		if u == nil {
			continue
		}
		if len(u.exclusiveCores) > 1 {
			v.fail("resource "+name, "exclusively accessed from %d cores", len(u.exclusiveCores))
		}
		if u.modes[core.Exclusive] && u.modes[core.Shared] {
			v.fail("resource "+name, "accessed both exclusively and shared")
		}
	}
}

func (v *validator) checkBindings() {
	names := make([]string, 0, len(v.app.HardwareTasks))
	for name := range v.app.HardwareTasks {
		names = append(names, name)
	}
	sort.Strings(names)

	bound := make(map[string][]string)
	var irqs []string
	for _, name := range names {
		task := v.app.HardwareTasks[name]
		if task.Binds == "" {
			v.fail("task "+name, "hardware task is not bound to an interrupt")
			continue
		}
		if _, seen := bound[task.Binds]; !seen {
			irqs = append(irqs, task.Binds)
		}
		bound[task.Binds] = append(bound[task.Binds], name)
	}
	for _, irq := range irqs {
		if tasks := bound[irq]; len(tasks) > 1 {
			v.fail("interrupt "+irq, "bound by several tasks: %v", tasks)
		}
	}
}

func (v *validator) checkLateClaims() {
	if _, err := analysis.PartitionLate(v.app.LateResources(), analysis.ClaimsOf(v.app)); err != nil {
		v.errs = append(v.errs, err)
	}
}

func (v *validator) checkUnused() {
	accessed := make(map[string]bool)
	messaged := make(map[string]bool)
	for _, ctx := range v.app.Contexts() {
		for _, access := range ctx.Accesses() {
			accessed[access.Resource] = true
		}
		for _, t := range ctx.Spawns() {
			messaged[t] = true
		}
		for _, t := range ctx.Schedules() {
			messaged[t] = true
		}
	}

	for _, name := range v.app.ResourceNames() {
		if !accessed[name] {
			v.warn("resource "+name, "declared but never accessed")
		}
	}
	for _, ctx := range v.app.Contexts() {
		if ctx.Kind() == core.KindSoftwareTask && !messaged[ctx.Name()] {
			v.warn(core.Label(ctx), "never spawned or scheduled")
		}
	}
}
