package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/spf13/cobra"
)

// QueuesOutput is the JSON form of `leapsched queues`.
type QueuesOutput struct {
	App        string                 `json:"app"`
	Channels   []output.ChannelInfo   `json:"channels"`
	FreeQueues []output.FreeQueueInfo `json:"free_queues"`
	TimerQueue output.TimerQueueInfo  `json:"timer_queue"`
}

// NewQueuesCommand creates the queues command.
func NewQueuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queues [app-file]",
		Short: "Show dispatch channels, free queues and the timer queue",
		Long: `Show the message queues the runtime needs for an application.

Every priority level with software tasks gets a dispatch channel sized to
the sum of its tasks' capacities. Every software task gets a free queue of
message slots, and tasks that are scheduled share a single timer queue.
A ceiling of "-" means only init routines enqueue into the queue.`,
		Example: `  # Show queues of the configured application
  leapsched queues

  # Output as JSON
  leapsched queues -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQueues,
	}
	return cmd
}

func runQueues(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	loaded, err := cmdCtx.LoadApp(cmdCtx.AppPath(args))
	if err != nil {
		return err
	}
	a := cmdCtx.Analyzer.Analyze(loaded.App)
	rep := buildReport(loaded.App, a, loaded.Warnings)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(QueuesOutput{
			App:        rep.App,
			Channels:   rep.Channels,
			FreeQueues: rep.FreeQueues,
			TimerQueue: rep.TimerQueue,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Queues of "+rep.App))
		r.Println("")
		queuesMarkdown(r, &rep)
	default:
		r.Header(1, "Queues of "+rep.App)
		queuesText(r, &rep)
	}
	return nil
}

// queuesText renders channels, free queues and the timer queue for a terminal.
func queuesText(r *output.Renderer, rep *output.AnalysisOutput) {
	styles := r.Styles()

	if len(rep.Channels) == 0 {
		r.Muted("No software tasks, no channels.")
	} else {
		channelTable(r, rep.Channels)
	}

	if len(rep.FreeQueues) > 0 {
		r.Println("")
		freeQueueTable(r, rep.FreeQueues)
	}

	r.Println("")
	tq := rep.TimerQueue
	if tq.Empty {
		r.Printf("%s %s\n", styles.Bold.Render("Timer queue:"), styles.Muted.Render("empty"))
		return
	}
	r.Printf("%s %s\n", styles.Bold.Render("Timer queue:"), timerQueueSummary(tq))
	r.Printf("  %s %s\n", styles.Muted.Render("tasks:"), output.FormatList(tq.Tasks))
}

// queuesMarkdown renders channels, free queues and the timer queue as markdown.
func queuesMarkdown(r *output.Renderer, rep *output.AnalysisOutput) {
	r.Println(output.FormatHeader(3, "Channels"))
	r.Println("")
	if len(rep.Channels) == 0 {
		r.Println("No channels.")
	} else {
		channelTable(r, rep.Channels)
	}
	r.Println("")

	if len(rep.FreeQueues) > 0 {
		r.Println(output.FormatHeader(3, "Free queues"))
		r.Println("")
		freeQueueTable(r, rep.FreeQueues)
		r.Println("")
	}

	r.Println(output.FormatHeader(3, "Timer queue"))
	r.Println("")
	tq := rep.TimerQueue
	if tq.Empty {
		r.Println("Empty.")
	} else {
		r.Println(output.FormatKeyValue("Priority", strconv.Itoa(int(tq.Priority))))
		r.Println(output.FormatKeyValue("Ceiling", strconv.Itoa(int(tq.Ceiling))))
		r.Println(output.FormatKeyValue("Capacity", strconv.FormatUint(uint64(tq.Capacity), 10)))
		r.Println(output.FormatKeyValue("Tasks", output.FormatList(tq.Tasks)))
	}
	r.Println("")
}

func channelTable(r *output.Renderer, channels []output.ChannelInfo) {
	rows := make([]table.Row, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, table.Row{ch.Priority, ch.Ceiling.String(), ch.Capacity, output.FormatList(ch.Tasks)})
	}
	r.Table(table.Row{"Channel", "Ceiling", "Capacity", "Tasks"}, rows)
}

func freeQueueTable(r *output.Renderer, queues []output.FreeQueueInfo) {
	rows := make([]table.Row, 0, len(queues))
	for _, fq := range queues {
		rows = append(rows, table.Row{fq.Task, fq.Ceiling.String()})
	}
	r.Table(table.Row{"Free queue", "Ceiling"}, rows)
}

func timerQueueSummary(tq output.TimerQueueInfo) string {
	return fmt.Sprintf("priority %d, ceiling %d, capacity %d", tq.Priority, tq.Ceiling, tq.Capacity)
}
