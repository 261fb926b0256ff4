package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joshelser/opscenter-autoscaler/scaler"
)

// priorDoc is the YAML form of a prior.
type priorDoc struct {
	Name   string     `yaml:"name"`
	States []priorRow `yaml:"states"`
}

type priorRow struct {
	State     int     `yaml:"state"`
	Size      string  `yaml:"size"`
	Bucket    string  `yaml:"bucket"`
	ScaleUp   float64 `yaml:"scale_up"`
	ScaleDown float64 `yaml:"scale_down"`
	Hold      float64 `yaml:"hold"`
}

func newPriorCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "prior [name]",
		Short: "Print an initial Q-table as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range scaler.PriorNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return writePrior(cmd.OutOrStdout(), name)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List the available priors")
	return cmd
}

func writePrior(w io.Writer, name string) error {
	prior, err := scaler.LookupPrior(name)
	if err != nil {
		return err
	}
	doc := priorDoc{Name: prior.Name, States: make([]priorRow, 0, scaler.NumStates)}
	for s := scaler.State(0); int(s) < scaler.NumStates; s++ {
		size, bucket := scaler.Decode(s)
		row := prior.Row(s)
		doc.States = append(doc.States, priorRow{
			State:     int(s),
			Size:      size.String(),
			Bucket:    bucket.String(),
			ScaleUp:   row[scaler.ScaleUp],
			ScaleDown: row[scaler.ScaleDown],
			Hold:      row[scaler.Hold],
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
