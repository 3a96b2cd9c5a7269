package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/compiler"
)

func newCompileCommand() *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the bundled demo manifest into a catalog",
		Long: `Compile evaluates the demo program built into this command against
--node's facts and prints the resulting catalog.

There is no manifest-file flag: pkg/compiler accepts already-parsed
*ast.TopLevel trees, and this build carries no source-text parser. Swap
demoProgram() for the output of a real parser to compile actual
manifests.`,
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
				NodeName:        nodeName,
				EnvironmentName: environment,
				Facts:           facts,
				Sources:         []*ast.TopLevel{demoProgram()},
			}

			result, err := c.Compile(cmd.Context(), req)
			if err != nil {
				log.Error().Err(err).Str("node", nodeName).Msg("compile failed")
				return err
			}

			return printCatalog(cmd, result)
		},
	}

	cmd.Flags().StringVar(&environment, "environment", "production", "environment name bound to the compile")

	return cmd
}

func printCatalog(cmd *cobra.Command, result *compiler.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(catalogToJSON(result))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "compile %s: %d resource(s)\n", result.CompileID, len(result.Catalog.All()))
	for _, r := range result.Catalog.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", r.Key)
		for _, name := range r.AttrOrder {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s => %s\n", name, r.Attributes[name].Display())
		}
	}
	return nil
}

type catalogResourceJSON struct {
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Attributes map[string]string `json:"attributes"`
	Virtual    bool              `json:"virtual"`
	Exported   bool              `json:"exported"`
}

type catalogJSON struct {
	CompileID string                `json:"compile_id"`
	Resources []catalogResourceJSON `json:"resources"`
}

func catalogToJSON(result *compiler.Result) catalogJSON {
	out := catalogJSON{CompileID: result.CompileID}
	for _, r := range result.Catalog.All() {
		attrs := make(map[string]string, len(r.AttrOrder))
		for _, name := range r.AttrOrder {
			attrs[name] = r.Attributes[name].Display()
		}
		out.Resources = append(out.Resources, catalogResourceJSON{
			Type:       r.Key.Type,
			Title:      r.Key.Title,
			Attributes: attrs,
			Virtual:    r.Virtual,
			Exported:   r.Exported,
		})
	}
	return out
}
