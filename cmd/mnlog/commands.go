package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mininet/mininet-go/internal/cliconfig"
	"github.com/mininet/mininet-go/pkg/log"
	"github.com/mininet/mininet-go/plugins/levelwatch"
)

// stderrIsTerminal reports whether progress can be drawn in place.
var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func newEmitCmd() *cobra.Command {
	level := log.LevelInfo.String()
	var noNewline bool

	cmd := &cobra.Command{
		Use:   "emit MESSAGE...",
		Short: "Log a message at the given level",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.Join(args, " ")
			if !noNewline {
				msg += "\n"
			}
			return emit(log.Lg(), level, msg)
		},
	}
	cmd.Flags().Var(cliconfig.NewLevelValue(&level), "level", cliconfig.LevelUsage("message severity"))
	cmd.Flags().BoolVarP(&noNewline, "no-newline", "n", false, "do not append a newline")
	return cmd
}

// emit writes msg literally at the named level.
func emit(lg log.Logger, level, msg string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	switch l {
	case log.LevelDebug:
		lg.Debug(msg)
	case log.LevelInfo:
		lg.Info(msg)
	case log.LevelWarning:
		lg.Warning(msg)
	case log.LevelError:
		lg.Error(msg)
	case log.LevelCritical:
		lg.Critical(msg)
	}
	return nil
}

func newProgressCmd(cfg *cliconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Draw a row of dots at info level, one per step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return progress(cmd.Context(), log.Lg(), cfg.ProgressCount, cfg.ProgressInterval, stderrIsTerminal())
		},
	}
	cmd.Flags().IntVar(&cfg.ProgressCount, "count", cfg.ProgressCount, "number of steps")
	cmd.Flags().DurationVar(&cfg.ProgressInterval, "interval", cfg.ProgressInterval, "delay between steps")
	return cmd
}

// progress runs count steps. On a terminal each step is drawn as a dot on
// the same line; otherwise a single summary line is written at the end.
func progress(ctx context.Context, lg log.Logger, count int, interval time.Duration, interactive bool) error {
	for i := 0; i < count; i++ {
		if interval > 0 {
			select {
			case <-ctx.Done():
				if interactive {
					lg.Info("\n")
				}
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		if interactive {
			lg.Info(".")
		}
	}
	if interactive {
		lg.Info("\n")
		return nil
	}
	lg.Info("*** %d steps done\n", count)
	return nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List recognized level names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range log.LevelNames() {
				marker := ""
				if log.Levels[name] == log.DefaultLevel {
					marker = " (default)"
				}
				if _, err := fmt.Fprintf(out, "%-8s %d%s\n", name, int(log.Levels[name]), marker); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newWatchCmd(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow log_level in the config file until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath(*cfgPath)
			if path == "" {
				return fmt.Errorf("no config file to watch")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lg := log.Lg()
			wcfg := levelwatch.DefaultConfig()
			wcfg.Path = path
			wcfg.DebounceDelay = cfg.WatchDebounce
			w := levelwatch.New(wcfg, lg, lg)
			if err := w.Start(ctx); err != nil {
				return err
			}
			lg.Info("*** Watching %s\n", path)

			<-ctx.Done()
			lg.Info("\n*** Stopping watcher\n")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return w.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().DurationVar(&cfg.WatchDebounce, "debounce", cfg.WatchDebounce, "delay after a change before reloading")
	return cmd
}

// writeStats prints every counter in g as "name{labels} value".
func writeStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather stats: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			if _, err := fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue()); err != nil {
				return err
			}
		}
	}
	return nil
}
