package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/pipeline"
	"github.com/matzehuels/modgraph/pkg/render"
)

// formatsCommand lists the available output formats.
func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List available output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := pipeline.NewRegistry(nil)
			for _, name := range pipeline.Formats() {
				desc := "SVG image of the dot diagram (Graphviz)"
				if r, err := reg.New(name, render.DefaultOptions()); err == nil {
					desc = r.Description()
				}
				c.printKeyValue(name, fmt.Sprintf("%s %s", desc, StyleDim.Render("."+fileExtension(name))))
			}
			return nil
		},
	}
}

// sortedFormats returns the keys of artifacts in sorted order.
func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
