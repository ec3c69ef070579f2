package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/shardtree/internal/logging"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/policy"
)

var verbose bool

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "shardtree",
	Short: "Partition module trees into shardable groups",
	Long: `shardtree decides which subtrees of a model become independently-shardable
groups for distributed training. Feed it a YAML tree description to preview
the wrap boundaries a given policy would choose.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// policyFlags holds the wrap policy knobs of commands that take one.
type policyFlags struct {
	minParams int64
	forceLeaf []string
	exclude   []string
}

func (f *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.minParams, "min-params", policy.DefaultMinParams,
		"minimum unwrapped parameter count that makes a module a shard boundary")
	cmd.Flags().StringSliceVar(&f.forceLeaf, "force-leaf", nil,
		"extra kinds treated as atomic units (added to the defaults)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil,
		"extra kinds never wrapped themselves (added to the defaults)")
}

func (f *policyFlags) build() (*policy.SizePolicy, error) {
	if f.minParams < 0 {
		return nil, fmt.Errorf("--min-params must be >= 0, got %d", f.minParams)
	}
	var opts []policy.Option
	if len(f.forceLeaf) > 0 {
		opts = append(opts, policy.WithForceLeaf(policy.DefaultForceLeaf.Union(kindSet(f.forceLeaf))))
	}
	if len(f.exclude) > 0 {
		opts = append(opts, policy.WithExclude(policy.DefaultExclude.Union(kindSet(f.exclude))))
	}
	return policy.Size(f.minParams, opts...), nil
}

func kindSet(raw []string) domain.KindSet {
	set := domain.KindSet{}
	for _, k := range raw {
		if k = strings.TrimSpace(k); k != "" {
			set[domain.Kind(k)] = struct{}{}
		}
	}
	return set
}
