package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/pipeline"
)

// analysisReport is the JSON form of the analyze command output.
type analysisReport struct {
	Phases      [][]reportModule `json:"phases"`
	Unordered   []string         `json:"unordered,omitempty"`
	Independent []string         `json:"independent"`
	Unused      []string         `json:"unused"`
	Dangling    []reportEdge     `json:"dangling,omitempty"`
}

type reportModule struct {
	Class   string         `json:"class"`
	Name    string         `json:"name"`
	Label   classify.Label `json:"label"`
	Score   classify.Score `json:"score"`
	Exports int            `json:"exports"`
	Imports int            `json:"imports"`
}

type reportEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func newAnalysisReport(a *pipeline.Analysis) analysisReport {
	rep := analysisReport{
		Phases:      make([][]reportModule, len(a.Layers.Phases)),
		Unordered:   a.Layers.Unordered(),
		Independent: classNames(a.Independent),
		Unused:      classNames(a.Unused),
	}
	for i, phase := range a.Layers.Phases {
		rep.Phases[i] = make([]reportModule, len(phase))
		for j, m := range phase {
			label, _ := a.Partition.Label(m.ClassName)
			counts := a.Layers.Counts(m.ClassName)
			rep.Phases[i][j] = reportModule{
				Class:   m.ClassName,
				Name:    m.ShortName,
				Label:   label,
				Score:   a.Partition.Score(m.ClassName),
				Exports: counts.Exports,
				Imports: counts.Imports,
			}
		}
	}
	for _, e := range a.Dangling {
		rep.Dangling = append(rep.Dangling, reportEdge{From: e.From, To: e.To})
	}
	return rep
}

func classNames(ms []graph.Module) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ClassName
	}
	return out
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print initialization phases and module classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			rep := newAnalysisReport(runner.Analyze(ctx, g, c.Config.Classifier))

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			c.printAnalysis(rep)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	return cmd
}

func (c *CLI) printAnalysis(rep analysisReport) {
	c.printTitle("Initialization phases")
	for i, phase := range rep.Phases {
		names := make([]string, len(phase))
		for j, m := range phase {
			style := styleDomain
			if m.Label == classify.Infrastructure {
				style = styleInfra
			}
			names[j] = style.Render(m.Name) + StyleDim.Render(fmt.Sprintf(" (%d/%d)", m.Exports, m.Imports))
		}
		c.printKeyValue(fmt.Sprintf("Phase %d", i), strings.Join(names, ", "))
	}

	fmt.Fprintln(c.Out)
	c.printTitle("Classification")
	var infra, domain []string
	for _, phase := range rep.Phases {
		for _, m := range phase {
			if m.Label == classify.Infrastructure {
				infra = append(infra, m.Name)
			} else {
				domain = append(domain, m.Name)
			}
		}
	}
	c.printKeyValue("Infrastructure", styleInfra.Render(strings.Join(infra, ", ")))
	c.printKeyValue("Domain", styleDomain.Render(strings.Join(domain, ", ")))

	fmt.Fprintln(c.Out)
	c.printKeyValue("Independent", StyleNumber.Render(fmt.Sprint(len(rep.Independent))))
	c.printKeyValue("Unused", StyleNumber.Render(fmt.Sprint(len(rep.Unused))))

	if len(rep.Unordered) > 0 {
		c.printWarning("%d module(s) in a cycle or depending on unknown modules (last phase)", len(rep.Unordered))
	}
	for _, e := range rep.Dangling {
		c.printDetail("dangling edge %s %s %s", e.From, iconArrow, e.To)
	}
}
