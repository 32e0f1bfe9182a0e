// Command scriptkit boots the launcher host shell. Generalizes the
// teacher's flag-based single-entry main.go (cmd/rune/main.go) into cobra
// subcommands: `run` boots the interactive overlay, `doctor` validates the
// scripts dir/config/frecency file and prints a report without starting a
// terminal program, matching the "inspector"/"diagnose" tooling style.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drake/scriptkit/config"
	"github.com/drake/scriptkit/frecency"
	"github.com/drake/scriptkit/hostshell"
)

func main() {
	root := &cobra.Command{
		Use:   "scriptkit",
		Short: "A keyboard-driven script launcher",
	}

	root.AddCommand(newRunCmd(), newDoctorCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var headless bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the launcher overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "scriptkit: config: %v\n", err)
			}

			shell, err := hostshell.New(cfg)
			if err != nil {
				return err
			}

			if headless {
				return shell.RunHeadless(ctx, os.Stdin)
			}
			return shell.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "drive the shell from control-verb stdin without a terminal program")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate the scripts directory, config, and frecency store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Printf("config: FAIL (%v, falling back to defaults)\n", err)
			} else {
				fmt.Println("config: OK")
			}

			info, err := os.Stat(cfg.ScriptsDir)
			switch {
			case err != nil:
				fmt.Printf("scripts dir %s: FAIL (%v)\n", cfg.ScriptsDir, err)
			case !info.IsDir():
				fmt.Printf("scripts dir %s: FAIL (not a directory)\n", cfg.ScriptsDir)
			default:
				fmt.Printf("scripts dir %s: OK\n", cfg.ScriptsDir)
			}

			store := frecency.Load(config.DataDir()+"/frecency.json", func(format string, args ...any) {
				fmt.Printf("frecency: WARN "+format+"\n", args...)
			})
			if err := store.FlushNow(); err != nil {
				fmt.Printf("frecency store: FAIL (%v)\n", err)
			} else {
				fmt.Println("frecency store: OK")
			}

			return nil
		},
	}
}
