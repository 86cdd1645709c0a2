package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/nudgelabs/nudge-core/internal/cli"
	"github.com/nudgelabs/nudge-core/internal/constants"
	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/reward"
	"github.com/nudgelabs/nudge-core/internal/schedule"
	"github.com/nudgelabs/nudge-core/internal/storage/sqlite"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path." type:"path" default:"~/.config/nudge/nudge.db"`
	Debug   bool   `help:"Verbose logging to stderr."`
	Remote  string `help:"Remote record store connection string (overrides env and keyring)."`

	Init cli.InitCmd `cmd:"" help:"Initialize nudge storage."`

	Task struct {
		Add     cli.TaskAddCmd     `cmd:"" help:"Add a task."`
		List    cli.TaskListCmd    `cmd:"" help:"List tasks."`
		Done    cli.TaskDoneCmd    `cmd:"" help:"Complete a task and collect the reward."`
		Snooze  cli.TaskSnoozeCmd  `cmd:"" help:"Hide a task until later."`
		Skip    cli.TaskSkipCmd    `cmd:"" help:"Move a task to the back of the queue."`
		Drop    cli.TaskDropCmd    `cmd:"" help:"Drop a task without completing it."`
		Restore cli.TaskRestoreCmd `cmd:"" help:"Bring a snoozed or dropped task back."`
		Delete  cli.TaskDeleteCmd  `cmd:"" help:"Delete a task permanently."`
	} `cmd:"" help:"Manage tasks."`

	Next cli.NextCmd `cmd:"" help:"Recommend the single best next task." default:"1"`
	Dump cli.DumpCmd `cmd:"" help:"Capture a brain dump as tasks."`

	Routine struct {
		Add    cli.RoutineAddCmd    `cmd:"" help:"Add a repeating routine."`
		List   cli.RoutineListCmd   `cmd:"" help:"List routines."`
		Delete cli.RoutineDeleteCmd `cmd:"" help:"Delete a routine."`
	} `cmd:"" help:"Manage routines."`
	Generate cli.GenerateCmd `cmd:"" help:"Expand due routines into today's tasks."`

	Sync   cli.SyncCmd `cmd:"" help:"Sync tasks and rewards with the remote store."`
	RemoteCmd struct {
		Set    cli.RemoteSetCmd    `cmd:"" help:"Store the remote connection string in the OS keyring."`
		Clear  cli.RemoteClearCmd  `cmd:"" help:"Remove the stored remote connection string."`
		Status cli.RemoteStatusCmd `cmd:"" help:"Show whether a remote is configured."`
	} `cmd:"" name:"remote" help:"Manage the remote record store credentials."`

	Rewards cli.RewardsCmd `cmd:"" help:"Show the reward ledger."`
	Import  cli.ImportCmd  `cmd:"" help:"Import upcoming calendar events as tasks."`
	Remind  cli.RemindCmd  `cmd:"" help:"Schedule snooze and stale check-in reminders."`
	Watch   cli.WatchCmd   `cmd:"" help:"Run periodic sync and routine generation in the foreground."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Task queue, rewards, and sync engine for the gentle to-do companion"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		errs.Fatal(err)
	}

	store := sqlite.NewStore(CLI.Config)
	tasks := taskstore.New(store)

	appCtx := &cli.Context{
		DB:       store,
		Tasks:    tasks,
		Rewards:  reward.NewService(store),
		Schedule: schedule.NewService(tasks, store),
		Remote:   CLI.Remote,
	}

	if err := ctx.Run(appCtx); err != nil {
		errs.Fatal(err)
	}
}
