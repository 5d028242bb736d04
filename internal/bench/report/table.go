package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== kNN Benchmark (%s) ===\n", r.Meta.Engine.Type)
	fmt.Fprintf(tw, "run %s, warmup %d, runs %d\n\n", r.Meta.RunID, r.Config.WarmupRuns, r.Config.Runs)

	writeResultsTable(tw, r.Cases)
	writeLatencyTable(tw, r.Cases)
	writeFailures(tw, r.Cases)

	fmt.Fprintf(tw, "%d cases, %d failed, mean recall %.4f\n", r.Summary.CaseCount, r.Summary.FailedCount, r.Summary.MeanRecall)

	tw.Flush()
}

func writeResultsTable(tw *tabwriter.Writer, cases []CaseReport) {
	fmt.Fprintf(tw, "Results\n\n")

	header := []string{"Case", "Dataset", "Metric", "Dim", "K", "Filter", "Inserted", "Load", "Optimize", "QPS", "Recall", "NDCG", "Status"}
	writeHeader(tw, header)

	for _, c := range cases {
		status := "OK"
		if c.Error != "" {
			status = "ERR(" + c.FailedPhase + ")"
		}
		filter := "-"
		if c.Filtered {
			filter = "id>"
		}
		row := []string{
			c.Name,
			c.Dataset,
			c.Metric,
			fmt.Sprintf("%d", c.Dim),
			fmt.Sprintf("%d", c.K),
			filter,
			fmt.Sprintf("%d", c.Inserted),
			fmtDuration(time.Duration(c.LoadTime)),
			fmtDuration(time.Duration(c.OptimizeTime)),
			fmt.Sprintf("%.1f", c.QPS),
			fmt.Sprintf("%.4f", c.Recall),
			fmt.Sprintf("%.4f", c.NDCG),
			status,
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeLatencyTable(tw *tabwriter.Writer, cases []CaseReport) {
	fmt.Fprintf(tw, "Search Latency\n\n")

	header := []string{"Case", "Min", "p50", "p95", "p99", "Max", "Mean", "Stddev", "Samples"}
	writeHeader(tw, header)

	for _, c := range cases {
		s := c.Latency
		row := []string{
			c.Name,
			fmtDuration(time.Duration(s.Min)),
			fmtDuration(s.P50()),
			fmtDuration(s.P95()),
			fmtDuration(s.P99()),
			fmtDuration(time.Duration(s.Max)),
			fmtDuration(time.Duration(s.Mean)),
			fmtDuration(time.Duration(s.Stddev)),
			fmt.Sprintf("%d", s.SampleCount),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeFailures(tw *tabwriter.Writer, cases []CaseReport) {
	var failed []CaseReport
	for _, c := range cases {
		if c.Error != "" {
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(tw, "Failures\n\n")
	for _, c := range failed {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.FailedPhase, c.Error)
	}
	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
