package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/mininet/mininet-go/internal/cliconfig"
	"github.com/mininet/mininet-go/pkg/log"
)

const helpDescription = `
Drive the mininet logging facade from the command line.

Messages are written to stderr exactly as given: no timestamp, no level
prefix and no newline unless you ask for one. Only warnings and above are
shown by default; raise verbosity with -v, MININET_LOG_LEVEL or log_level in
the config file (flag > env > file).
`

var exampleUsage = strings.TrimSpace(`
  mnlog -v info emit "*** Creating network"
  mnlog emit --level error --no-newline "disk full"
  mnlog -v info progress --count 20 --interval 50ms
  mnlog watch --config $HOME/.mininet/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("mnlog: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var stats bool

	registry := prometheus.NewRegistry()

	root := &cobra.Command{
		Use:           "mnlog",
		Short:         "Emit and tune mininet log output",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s (log %s) %s/%s", getVersion(), log.Version, runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := resolveConfigPath(cfgPath)

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := cliconfig.Load(&cfg, cfgFile, changed); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := log.SetLogLevel(cfg.LogLevel); err != nil {
				return err
			}
			if err := log.Lg().RegisterMetrics(registry); err != nil {
				return err
			}
			log.Debug("configuration: %+v\n", cfg)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !stats {
				return nil
			}
			return writeStats(cmd.ErrOrStderr(), registry)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.mininet/config.toml)")
	root.PersistentFlags().VarP(cliconfig.NewLevelValue(&cfg.LogLevel), "verbosity", "v", cliconfig.LevelUsage("log threshold"))
	root.PersistentFlags().BoolVar(&stats, "stats", false, "print log record counters to stderr on exit")

	root.AddCommand(
		newEmitCmd(),
		newProgressCmd(&cfg),
		newLevelsCmd(),
		newWatchCmd(&cfg, &cfgPath),
	)
	return root
}

func resolveConfigPath(p string) string {
	if p != "" {
		return p
	}
	return cliconfig.DefaultConfigPath()
}
