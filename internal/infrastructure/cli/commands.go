package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/hostpilot/internal/app"
	"github.com/doeshing/hostpilot/internal/domain"
)

func newPlanCommand(container *app.Container) *cobra.Command {
	var withContext bool
	cmd := &cobra.Command{
		Use:   "plan [request...]",
		Short: "Classify a request and show the execution plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := strings.Join(args, " ")
			category := container.Classifier.Classify(text)
			plan := container.Planner.Plan(category)
			renderPlan(cmd.OutOrStdout(), text, plan)
			if withContext {
				out := cmd.OutOrStdout()
				summary := container.Registry.Summary(ctx)
				fmt.Fprintln(out)
				fmt.Fprintln(out, container.Dispatch.SystemContext(ctx, summary))
				if procs := container.Planner.CurrentApplications(ctx); len(procs) > 0 {
					fmt.Fprintf(out, "Running Processes: %d\n", len(procs))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withContext, "context", false, "Append the current system context to the plan")
	return cmd
}

func newRunCommand(container *app.Container) *cobra.Command {
	var language string
	var hide bool
	cmd := &cobra.Command{
		Use:   "run [code...]",
		Short: "Dispatch a code block through the routed channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.DispatchRequest{
				Block: domain.CodeBlock{
					Language: language,
					Code:     strings.Join(args, " "),
				},
				ShowInTerminal: container.Config.Terminal.ShowCommands && !hide,
			}
			result, err := container.Dispatch.Dispatch(cmd.Context(), req)
			if err != nil {
				return err
			}
			renderDispatchResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Language tag of the code block (defaults to shell)")
	cmd.Flags().BoolVar(&hide, "hide", false, "Do not echo the command into the visible terminal")
	return cmd
}

func newWindowsCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Inspect and control open windows",
	}

	var refresh bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List open windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			windows := container.Registry.GetAllWindows(cmd.Context(), refresh)
			renderWindows(cmd.OutOrStdout(), windows)
			return nil
		},
	}
	list.Flags().BoolVar(&refresh, "refresh", false, "Bypass the snapshot cache")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show windows grouped by application",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.Registry.Summary(cmd.Context()))
			return nil
		},
	}

	active := &cobra.Command{
		Use:   "active",
		Short: "Show the currently focused window",
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := container.Adapter.ActiveWindow(cmd.Context())
			if err != nil {
				return err
			}
			if win == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No focused window detected.")
				return nil
			}
			renderWindows(cmd.OutOrStdout(), []domain.WindowRecord{*win})
			return nil
		},
	}

	find := &cobra.Command{
		Use:   "find [title-pattern]",
		Short: "Find the first window whose title matches the pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := container.Registry.FindByTitle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if win == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching window.")
				return nil
			}
			renderWindows(cmd.OutOrStdout(), []domain.WindowRecord{*win})
			return nil
		},
	}

	appCmd := &cobra.Command{
		Use:   "app [name]",
		Short: "List windows belonging to an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderWindows(cmd.OutOrStdout(), container.Registry.FindByApplication(cmd.Context(), args[0]))
			return nil
		},
	}

	switchCmd := &cobra.Command{
		Use:   "switch [title-pattern]",
		Short: "Raise the first window whose title matches the pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			win, err := container.Registry.FindByTitle(ctx, args[0])
			if err != nil {
				return err
			}
			if win == nil {
				return fmt.Errorf("no window matching %q", args[0])
			}
			if !container.Adapter.SwitchTo(ctx, *win) {
				return fmt.Errorf("could not switch to %q", win.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s (%s)\n", win.Title, win.Application)
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close [title-pattern]",
		Short: "Close the first window whose title matches the pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			win, err := container.Registry.FindByTitle(ctx, args[0])
			if err != nil {
				return err
			}
			if win == nil {
				return fmt.Errorf("no window matching %q", args[0])
			}
			if !container.Adapter.CloseWindow(ctx, *win) {
				return fmt.Errorf("could not close %q", win.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s (%s)\n", win.Title, win.Application)
			return nil
		},
	}

	cmd.AddCommand(list, summary, active, find, appCmd, switchCmd, closeCmd)
	return cmd
}

func newTerminalCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terminal",
		Short: "Manage the visible terminal session",
	}

	var title string
	open := &cobra.Command{
		Use:   "open",
		Short: "Open the visible terminal window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = container.Config.Terminal.Title
			}
			if !container.Terminal.Open(cmd.Context(), title) {
				return fmt.Errorf("no terminal launcher succeeded")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Terminal opened.")
			return nil
		},
	}
	open.Flags().StringVar(&title, "title", "", "Window title (defaults to the configured title)")

	var hide bool
	run := &cobra.Command{
		Use:   "run [command...]",
		Short: "Execute a command through the terminal session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show := container.Config.Terminal.ShowCommands && !hide
			payload := container.Terminal.Execute(cmd.Context(), strings.Join(args, " "), show)
			fmt.Fprintln(cmd.OutOrStdout(), payload.Content)
			return nil
		},
	}
	run.Flags().BoolVar(&hide, "hide", false, "Do not echo the command into the visible window")

	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close the visible terminal window",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Terminal.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Terminal closed.")
			return nil
		},
	}

	var clear bool
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show commands executed through the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				container.Terminal.ClearHistory()
				fmt.Fprintln(cmd.OutOrStdout(), "Session history cleared.")
				return nil
			}
			entries := container.Terminal.History()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No commands executed yet.")
				return nil
			}
			for _, entry := range entries {
				marker := " "
				if entry.Visible {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", marker, entry.IssuedAt.Format("15:04:05"), entry.Command)
			}
			return nil
		},
	}
	historyCmd.Flags().BoolVar(&clear, "clear", false, "Clear the session history")

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether the terminal session is alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Terminal.IsActive() {
				fmt.Fprintln(cmd.OutOrStdout(), "Terminal session active.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No active terminal session.")
			}
			return nil
		},
	}

	cmd.AddCommand(open, run, closeCmd, historyCmd, status)
	return cmd
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the automation environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := container.Doctor.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			if !report.Healthy() {
				return fmt.Errorf("environment has failing checks")
			}
			return nil
		},
	}
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	var search string
	var clear bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted dispatch history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				return fmt.Errorf("history persistence disabled in config")
			}
			if clear {
				if err := container.History.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}
			records, err := container.History.Records(limit, search)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "Maximum records to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by command substring")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all persisted records")
	return cmd
}

// demoRequests is the fixed scripted sequence shown by `hostpilot demo`.
var demoRequests = []string{
	"copy all txt files to backup folder",
	"show me the current CPU and memory usage",
	"switch to the browser window",
	"help me organize my desktop and clean up old downloads",
}

func newDemoCommand(container *app.Container) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through example requests and their plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, text := range demoRequests {
				fmt.Fprintf(out, "=== Demo %d ===\n", i+1)
				category := container.Classifier.Classify(text)
				renderPlan(out, text, container.Planner.Plan(category))
				fmt.Fprintln(out)
			}
			if !interactive {
				return nil
			}

			tty := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
			fmt.Fprintln(out, "Interactive mode. Type a request, or quit/exit to leave.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if tty {
					fmt.Fprint(out, "> ")
				}
				if !scanner.Scan() {
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "quit" || text == "exit" {
					return nil
				}
				category := container.Classifier.Classify(text)
				renderPlan(out, text, container.Planner.Plan(category))
				fmt.Fprintln(out)
			}
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read requests from stdin after the scripted sequence")
	return cmd
}
