package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/shardtree/pkg/adapters/yamltree"
	"github.com/aretw0/shardtree/pkg/plan"
)

var (
	planPolicy policyFlags
	planJSON   bool
)

// planCmd previews the wrap boundaries for a tree description.
var planCmd = &cobra.Command{
	Use:   "plan <tree.yaml>",
	Short: "Preview the shard boundaries a policy would choose",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := planPolicy.build()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening tree description: %w", err)
		}
		defer f.Close()

		root, err := yamltree.Load(f)
		if err != nil {
			return err
		}

		p, err := plan.Build(cmd.Context(), root, pol)
		if err != nil {
			return err
		}

		if planJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		render(p)
		return nil
	},
}

func init() {
	planPolicy.register(planCmd)
	planCmd.Flags().BoolVar(&planJSON, "json", false, "emit the plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func render(p *plan.Plan) {
	out := termenv.NewOutput(os.Stdout)
	if len(p.Entries) == 0 {
		fmt.Println(out.String("no shard boundaries at this threshold").Foreground(out.Color("3")))
		return
	}
	for _, e := range p.Entries {
		path := e.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Printf("%s  %s  %d params\n",
			out.String(path).Foreground(out.Color("6")).Bold(),
			e.Kind,
			e.Params,
		)
	}
	fmt.Printf("%d boundaries, %d of %d params sharded\n",
		len(p.Entries), p.WrappedParams, p.TotalParams)
}
