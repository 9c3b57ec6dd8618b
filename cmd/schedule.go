package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/armature/armature/internal/config"
	"github.com/armature/armature/internal/container"
	"github.com/armature/armature/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled arm commands",
}

func init() {
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(scheduleEnableCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
}

// ---- list ------------------------------------------------------------------

var scheduleListAll bool

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc := schedule.NewService(scheduleStorePath())
		jobs := svc.ListJobs(scheduleListAll)
		if len(jobs) == 0 {
			fmt.Println("No scheduled jobs.")
			return nil
		}
		fmt.Printf("%-10s %-20s %-25s %-10s %-20s\n", "ID", "Name", "Schedule", "Status", "Next Run")
		fmt.Println(strings.Repeat("-", 88))
		for _, j := range jobs {
			status := "enabled"
			if !j.Enabled {
				status = "disabled"
			}
			nextRun := ""
			if j.State.NextRunAtMs != nil {
				nextRun = time.UnixMilli(*j.State.NextRunAtMs).Format("2006-01-02 15:04")
			}
			fmt.Printf("%-10s %-20s %-25s %-10s %-20s\n",
				j.ID, truncStr(j.Name, 19), truncStr(formatSchedule(j.Schedule), 24), status, nextRun)
		}
		return nil
	},
}

func init() {
	scheduleListCmd.Flags().BoolVarP(&scheduleListAll, "all", "a", false, "Include disabled jobs")
}

// ---- add -------------------------------------------------------------------

var (
	scheduleAddName    string
	scheduleAddCommand string
	scheduleAddEvery   int
	scheduleAddCron    string
	scheduleAddTZ      string
	scheduleAddAt      string
)

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheduled job",
	RunE: func(_ *cobra.Command, _ []string) error {
		if scheduleAddTZ != "" && scheduleAddCron == "" {
			return fmt.Errorf("--tz can only be used with --cron")
		}

		var kind string
		var everyMs int64
		var atMs int64

		switch {
		case scheduleAddEvery > 0:
			kind = "every"
			everyMs = int64(scheduleAddEvery) * 1000
		case scheduleAddCron != "":
			kind = "cron"
		case scheduleAddAt != "":
			kind = "at"
			dt, err := time.ParseInLocation("2006-01-02T15:04:05", scheduleAddAt, time.Local)
			if err != nil {
				dt, err = time.Parse(time.RFC3339, scheduleAddAt)
				if err != nil {
					return fmt.Errorf("invalid --at value %q: %w", scheduleAddAt, err)
				}
			}
			atMs = dt.UnixMilli()
		default:
			return fmt.Errorf("must specify --every, --cron, or --at")
		}

		svc := schedule.NewService(scheduleStorePath())
		job, err := svc.AddJob(
			scheduleAddName, scheduleAddCommand, kind,
			everyMs, scheduleAddCron, scheduleAddTZ, atMs,
			kind == "at",
		)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added job '%s' (%s)\n", job.Name, job.ID)
		return nil
	},
}

func init() {
	scheduleAddCmd.Flags().StringVarP(&scheduleAddName, "name", "n", "", "Job name (required)")
	scheduleAddCmd.Flags().StringVarP(&scheduleAddCommand, "command", "c", "", "Natural-language arm command (required)")
	scheduleAddCmd.Flags().IntVarP(&scheduleAddEvery, "every", "e", 0, "Run every N seconds")
	scheduleAddCmd.Flags().StringVar(&scheduleAddCron, "cron", "", "Cron expression (e.g. '0 9 * * *')")
	scheduleAddCmd.Flags().StringVar(&scheduleAddTZ, "tz", "", "IANA timezone for --cron")
	scheduleAddCmd.Flags().StringVar(&scheduleAddAt, "at", "", "Run once at ISO datetime")

	_ = scheduleAddCmd.MarkFlagRequired("name")
	_ = scheduleAddCmd.MarkFlagRequired("command")
}

// ---- remove / enable / run -------------------------------------------------

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc := schedule.NewService(scheduleStorePath())
		if svc.RemoveJob(args[0]) {
			fmt.Printf("✓ Removed job %s\n", args[0])
		} else {
			fmt.Printf("Job %s not found\n", args[0])
		}
		return nil
	},
}

var scheduleEnableDisable bool

var scheduleEnableCmd = &cobra.Command{
	Use:   "enable <job-id>",
	Short: "Enable (or disable) a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc := schedule.NewService(scheduleStorePath())
		job, ok := svc.EnableJob(args[0], !scheduleEnableDisable)
		if !ok {
			fmt.Printf("Job %s not found\n", args[0])
			return nil
		}
		action := "enabled"
		if scheduleEnableDisable {
			action = "disabled"
		}
		fmt.Printf("✓ Job '%s' %s\n", job.Name, action)
		return nil
	},
}

func init() {
	scheduleEnableCmd.Flags().BoolVar(&scheduleEnableDisable, "disable", false, "Disable instead of enable")
}

var scheduleRunForce bool

var scheduleRunCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Manually run a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c, err := container.New(cfg)
		if err != nil {
			return err
		}

		svc := schedule.NewService(scheduleStorePath())
		svc.SetOnJob(func(ctx context.Context, job schedule.Job) (string, error) {
			resp, err := c.Interpreter().Run(ctx, job.Command)
			if err != nil {
				return "", err
			}
			if resp != "" {
				printResponse(resp)
			}
			return resp, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if svc.RunJob(ctx, args[0], scheduleRunForce) {
			fmt.Println("✓ Job executed")
		} else {
			fmt.Printf("Failed to run job %s (not found or disabled; use --force)\n", args[0])
		}
		return nil
	},
}

func init() {
	scheduleRunCmd.Flags().BoolVarP(&scheduleRunForce, "force", "f", false, "Run even if disabled")
}

// ---- helpers ---------------------------------------------------------------

func scheduleStorePath() string { return config.DataDir() + "/schedule/jobs.json" }

func formatSchedule(s schedule.JobSchedule) string {
	switch s.Kind {
	case "every":
		if s.EveryMs != nil {
			return fmt.Sprintf("every %ds", *s.EveryMs/1000)
		}
	case "cron":
		if s.Expr != nil {
			if s.TZ != nil {
				return *s.Expr + " (" + *s.TZ + ")"
			}
			return *s.Expr
		}
	case "at":
		return "one-time"
	}
	return s.Kind
}

func truncStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
