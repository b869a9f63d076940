// Package cli wires configuration, sampling and the dashboard behind the
// brtop command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/prabalesh/brtop/internal/errors"
)

// fs is the filesystem used by commands that write files.
var fs = afero.NewOsFs()

// dashboardFlags are the root command's flags. The *Set fields record
// whether a boolean or string flag was given explicitly, so an unset flag
// leaves the configured value alone.
type dashboardFlags struct {
	configPath string
	sort       string
	reverse    bool
	tree       bool
	filter     string
	noColor    bool
	debug      bool
	logFile    string
	once       bool

	sortSet   bool
	treeSet   bool
	filterSet bool
}

var rootFlags dashboardFlags

var rootCmd = &cobra.Command{
	Use:   "brtop",
	Short: "Terminal system monitor",
	Long: `brtop samples CPU, memory, network, disk, battery and processes and
renders them as a live dashboard.

Examples:
  brtop
  brtop --tree --sort mem
  brtop --filter user:root
  brtop --once > snapshot.txt`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := rootFlags
		f.sortSet = cmd.Flags().Changed("sort")
		f.treeSet = cmd.Flags().Changed("tree")
		f.filterSet = cmd.Flags().Changed("filter")

		cfg, err := resolveConfig(f)
		if err != nil {
			return err
		}
		if f.once {
			return onceCommand(cmd.Context(), cfg, cmd.OutOrStdout())
		}
		return dashboardCommand(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default .brtop.yaml or ~/.config/brtop/config.yaml)")

	flags := rootCmd.Flags()
	flags.StringVar(&rootFlags.sort, "sort", "", "process sort key: cpu, mem, pid, name, threads, user, command")
	flags.BoolVarP(&rootFlags.reverse, "reverse", "r", false, "reverse the configured sort direction")
	flags.BoolVarP(&rootFlags.tree, "tree", "t", false, "start in process tree mode")
	flags.StringVarP(&rootFlags.filter, "filter", "f", "", "initial process filter, e.g. 'user:root cpu>5'")
	flags.BoolVar(&rootFlags.noColor, "no-color", false, "disable colors")
	flags.BoolVar(&rootFlags.debug, "debug", false, "log debug messages and show frame timings")
	flags.StringVar(&rootFlags.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&rootFlags.once, "once", false, "print one frame to stdout and exit")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if errors.IsCode(err, errors.ErrFatalIO) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
