package cpiseries

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/sarima"
)

// CoefficientTable writes the estimate, standard error, and t statistic of
// every coefficient of a fitted model.
func CoefficientTable(w io.Writer, m *sarima.Model) error {
	table := newTable(w, []string{"term", "estimate", "std error", "t"})

	rows := make([][]string, 0, len(m.Coeff))
	for _, name := range m.CoeffNames() {
		c := m.Coeff[name]
		t := c.Estimate / c.StdErr
		tStr := fmt.Sprintf("%.3f", t)
		if math.IsNaN(t) {
			tStr = "n/a"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%.5f", c.Estimate),
			fmt.Sprintf("%.5f", c.StdErr),
			tStr,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "sigma^2 = %.6f, log-lik = %.3f, AICc = %.3f (n = %d)\n",
		m.Sigma2, m.LogLik, m.AICc, m.NObs)
	return err
}

// ComparisonTable writes the AICc-ranked model comparison.
func ComparisonTable(w io.Writer, ranks []ModelRank) error {
	table := newTable(w, []string{"model", "aicc", "log-lik", "sigma^2"})
	rows := make([][]string, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, []string{
			r.Spec,
			fmt.Sprintf("%.3f", r.AICc),
			fmt.Sprintf("%.3f", r.LogLik),
			fmt.Sprintf("%.6f", r.Sigma2),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// DiagnosticsSummary writes one line per residual test with a colored
// verdict.
func DiagnosticsSummary(w io.Writer, results []diagnostics.TestResult) error {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		verdict := pass("pass")
		if !r.Passed {
			verdict = fail("FAIL")
		}
		if _, err := fmt.Fprintf(w, "%-12s stat=%.4f p=%.4f (alpha=%.2f) %s\n",
			r.Name, r.Statistic, r.PValue, r.Level, verdict); err != nil {
			return err
		}
	}
	return nil
}

// Summary is the serializable report for one analysis run.
type Summary struct {
	SeriesID    string                   `json:"series_id"`
	Best        *sarima.Model            `json:"best_model"`
	Ranking     []ModelRank              `json:"ranking"`
	Diagnostics []diagnostics.TestResult `json:"diagnostics"`
	Forecast    *sarima.Forecast         `json:"forecast,omitempty"`
	HoldOut     *Scores                  `json:"hold_out,omitempty"`
}

// WriteJSON serializes the summary as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	bytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(bytes)
	return err
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	table.Header(headers)
	return table
}
