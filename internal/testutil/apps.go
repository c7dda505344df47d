package testutil

import (
	"github.com/leapstack-labs/leapsched/pkg/core"
)

// AppBuilder assembles a core.App for tests.
//
//	b := testutil.NewApp(1)
//	b.Resource("x", "u32")
//	b.Software("a", 1).Uses("x")
//	app := b.Build()
type AppBuilder struct {
	app *core.App
}

// NewApp creates a builder for an application with the given number of cores.
// Every core gets an init routine without resources.
func NewApp(cores int) *AppBuilder {
	app := core.NewApp("test", cores)
	for c := 0; c < cores; c++ {
		app.AddContext(core.NewInit(core.Core(c), nil, nil, nil))
	}
	return &AppBuilder{app: app}
}

// Build returns the assembled application.
func (b *AppBuilder) Build() *core.App {
	return b.app
}

// Resource declares an early resource.
func (b *AppBuilder) Resource(name, ty string) *AppBuilder {
	b.app.AddResource(&core.Resource{Name: name, Type: ty})
	return b
}

// Late declares a late resource.
func (b *AppBuilder) Late(name, ty string) *AppBuilder {
	b.app.AddResource(&core.Resource{Name: name, Type: ty, Late: true})
	return b
}

// Init returns the init routine of a core for further configuration.
func (b *AppBuilder) Init(c core.Core) *ContextBuilder {
	boot, ok := b.app.Inits[c]
	if !ok {
		boot = core.NewInit(c, nil, nil, nil)
		b.app.AddContext(boot)
	}
	return &ContextBuilder{routine: &boot.Routine, boot: boot}
}

// Idle adds the idle routine of a core.
func (b *AppBuilder) Idle(c core.Core) *ContextBuilder {
	idle := core.NewIdle(c, nil, nil, nil)
	b.app.AddContext(idle)
	return &ContextBuilder{routine: &idle.Routine}
}

// Hardware adds a hardware task on core 0 bound to an interrupt named after it.
func (b *AppBuilder) Hardware(name string, prio core.Priority) *ContextBuilder {
	task := core.NewHardwareTask(name, 0, prio, "IRQ_"+name)
	b.app.AddContext(task)
	return &ContextBuilder{routine: &task.Routine, hw: task}
}

// Software adds a software task on core 0 with the default capacity.
func (b *AppBuilder) Software(name string, prio core.Priority) *ContextBuilder {
	task := core.NewSoftwareTask(name, 0, prio, 0)
	b.app.AddContext(task)
	return &ContextBuilder{routine: &task.Routine, sw: task}
}

// ContextBuilder configures one context.
type ContextBuilder struct {
	routine *core.Routine
	boot    *core.Init
	hw      *core.HardwareTask
	sw      *core.SoftwareTask
}

// Uses declares exclusive access to resources.
func (c *ContextBuilder) Uses(resources ...string) *ContextBuilder {
	for _, r := range resources {
		c.routine.Resources = append(c.routine.Resources, core.Access{Resource: r, Mode: core.Exclusive})
	}
	return c
}

// Reads declares shared access to resources.
func (c *ContextBuilder) Reads(resources ...string) *ContextBuilder {
	for _, r := range resources {
		c.routine.Resources = append(c.routine.Resources, core.Access{Resource: r, Mode: core.Shared})
	}
	return c
}

// Spawns declares spawn targets.
func (c *ContextBuilder) Spawns(tasks ...string) *ContextBuilder {
	c.routine.SpawnList = append(c.routine.SpawnList, tasks...)
	return c
}

// Schedules declares schedule targets.
func (c *ContextBuilder) Schedules(tasks ...string) *ContextBuilder {
	c.routine.ScheduleList = append(c.routine.ScheduleList, tasks...)
	return c
}

// OnCore moves the context to another core.
func (c *ContextBuilder) OnCore(id core.Core) *ContextBuilder {
	c.routine.CoreID = id
	return c
}

// Inputs sets the payload types of a software task.
func (c *ContextBuilder) Inputs(types ...string) *ContextBuilder {
	c.mustSoftware().Inputs = types
	return c
}

// Capacity sets the message capacity of a software task.
func (c *ContextBuilder) Capacity(n uint) *ContextBuilder {
	c.mustSoftware().Capacity = n
	return c
}

// Binds sets the interrupt of a hardware task.
func (c *ContextBuilder) Binds(irq string) *ContextBuilder {
	if c.hw == nil {
		panic("testutil: Binds on a context that is not a hardware task")
	}
	c.hw.Binds = irq
	return c
}

// Claims sets an explicit late resource claim list on an init routine.
func (c *ContextBuilder) Claims(names ...string) *ContextBuilder {
	c.mustInit().Claims = names
	c.boot.ClaimsRest = false
	return c
}

// ClaimsRest marks an init routine as taking every unclaimed late resource.
func (c *ContextBuilder) ClaimsRest() *ContextBuilder {
	c.mustInit().ClaimsRest = true
	return c
}

func (c *ContextBuilder) mustSoftware() *core.SoftwareTask {
	if c.sw == nil {
		panic("testutil: not a software task")
	}
	return c.sw
}

func (c *ContextBuilder) mustInit() *core.Init {
	if c.boot == nil {
		panic("testutil: not an init routine")
	}
	return c.boot
}
