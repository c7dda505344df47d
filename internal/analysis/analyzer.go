package analysis

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// Analyzer runs the analysis passes over an application.
type Analyzer struct {
	logger *slog.Logger
	plan   []PassDef
}

// Config holds analyzer configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an analyzer. It panics if the registered passes do not form a
// DAG, which is a programming error.
func New(cfg Config) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	plan, err := Plan()
	if err != nil {
		panic(err)
	}

	return &Analyzer{logger: logger, plan: plan}
}

// accumulator is the state threaded through every pass of one Analyze call.
type accumulator struct {
	app    *core.App
	logger *slog.Logger

	late       map[core.Core][]string
	ownerships map[string]core.Ownership
	locations  map[string]core.Location
	channels   map[core.Priority]*core.Channel
	freeQueues map[string]core.OptionalPriority
	timerQueue *core.TimerQueue
	send       core.TypeSet
	sync       core.TypeSet
}

func newAccumulator(app *core.App, logger *slog.Logger) *accumulator {
	st := &accumulator{
		app:        app,
		logger:     logger,
		late:       make(map[core.Core][]string),
		ownerships: make(map[string]core.Ownership),
		locations:  make(map[string]core.Location),
		channels:   make(map[core.Priority]*core.Channel),
		freeQueues: make(map[string]core.OptionalPriority),
		timerQueue: core.NewTimerQueue(),
		send:       make(core.TypeSet),
		sync:       make(core.TypeSet),
	}
	// Every software task has a free queue, even if only init messages it.
	for name := range app.SoftwareTasks {
		st.freeQueues[name] = core.NoPriority()
	}
	return st
}

// Analyze computes the analysis of app. The app must already be validated.
func (a *Analyzer) Analyze(app *core.App) *core.Analysis {
	start := time.Now()
	a.logger.Debug("starting analysis", "app", app.Name, "cores", app.Cores, "passes", len(a.plan))

	st := newAccumulator(app, a.logger)
	for _, pass := range a.plan {
		pass.Run(st)
		a.logger.Debug("pass completed", "pass", pass.ID)
	}

	result := &core.Analysis{
		LateResources: st.late,
		Ownerships:    st.ownerships,
		Locations:     st.locations,
		Channels:      st.channels,
		FreeQueues:    st.freeQueues,
		TimerQueue:    st.timerQueue,
		SendTypes:     st.send,
		SyncTypes:     st.sync,
	}

	a.logger.Info("analysis completed",
		"app", app.Name,
		"resources", len(result.Ownerships),
		"channels", len(result.Channels),
		"send_types", len(result.SendTypes),
		"sync_types", len(result.SyncTypes),
		"duration", time.Since(start),
	)

	return result
}

// Plan returns the execution order used by this analyzer.
func (a *Analyzer) Plan() []PassDef {
	return a.plan
}
