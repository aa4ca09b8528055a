package reps

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smukkama/lift-analyzer/pkg/config"
)

// PrintOptions controls how result tables are rendered
type PrintOptions struct {
	Writer    io.Writer
	Precision int
	Padding   int
}

// NewPrintOptions builds print options from the display configuration
func NewPrintOptions(cfg config.DisplayConfig, w io.Writer) PrintOptions {
	return PrintOptions{Writer: w, Precision: cfg.Precision, Padding: cfg.Padding}
}

func (o PrintOptions) tabwriter() *tabwriter.Writer {
	padding := o.Padding
	if padding < 1 {
		padding = 1
	}
	return tabwriter.NewWriter(o.Writer, 0, 0, padding, ' ', 0)
}

// PrintBenchmark writes the benchmark table, one row per set
func PrintBenchmark(o PrintOptions, rows []BenchmarkRow) error {
	tw := o.tabwriter()
	fmt.Fprintln(tw, "\tlabel\tcategory\tset\treps")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i, r.Label, r.Category, r.Set, r.Reps)
	}
	return tw.Flush()
}

// PrintEstimates writes the estimated repetition count of each set along
// with the settings used to obtain it.
func PrintEstimates(o PrintOptions, estimates []Estimate) error {
	tw := o.tabwriter()
	fmt.Fprintln(tw, "\tlabel\tcategory\tset\tcolumn\tcutoff\torder\tsamples\testimated_reps")
	for i, e := range estimates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%.*f\t%d\t%d\t%d\n",
			i, e.Label, e.Category, e.Set, e.Params.Column, o.Precision, e.Params.Cutoff, e.Params.Order, e.Samples, e.Reps)
	}
	return tw.Flush()
}
