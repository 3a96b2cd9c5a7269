package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/compiler"
	"github.com/latticelang/lattice/pkg/eval"
)

func newExplainFinalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain-finalize",
		Short: "Compile the demo manifest, narrating each finalization pass",
		Long: `explain-finalize compiles the same bundled demo program as "compile",
printing the collector/defined-type/override queue sizes before and
after every finalization pass (spec §4.6) so a reader can see why the
loop ran as many passes as it did before reaching (or failing to reach)
a fixed point.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			facts, err := loadFacts(factsPath)
			if err != nil {
				return err
			}

			c, err := compiler.New(compiler.DefaultOptions())
			if err != nil {
				return fmt.Errorf("constructing compiler: %w", err)
			}

			req := compiler.Request{
				NodeName: nodeName,
				Facts:    facts,
				Sources:  []*ast.TopLevel{demoProgram()},
			}

			result, err := c.CompileWithTrace(cmd.Context(), req, func(p eval.PassReport) {
				fmt.Fprintf(cmd.OutOrStdout(),
					"pass %d: collectors %d->%d, defined types %d->%d, overrides %d->%d\n",
					p.Pass, p.CollectorsBefore, p.CollectorsAfter,
					p.DefinedTypesBefore, p.DefinedTypesAfter,
					p.OverridesBefore, p.OverridesAfter)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "converged with %d resource(s) in the catalog\n", len(result.Catalog.All()))
			return nil
		},
	}

	return cmd
}
