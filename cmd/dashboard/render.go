package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
)

var errDegraded = errors.New("one or more upstream calls failed")

func renderReports(w io.Writer, reports []aggregate.Report) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"View", "Call", "Status", "Reason", "Duration"})
	failed, total := 0, 0
	for _, r := range reports {
		for _, o := range r.Outcomes {
			total++
			status := ok("OK")
			if !o.OK {
				failed++
				status = fail("FAILED")
			}
			tw.AppendRow(table.Row{r.View, o.Name, status, o.Reason, o.Duration.Round(time.Millisecond)})
		}
		tw.AppendSeparator()
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d ok", total-failed, total), "", ""})
	tw.Render()
}

func degraded(reports []aggregate.Report) bool {
	for _, r := range reports {
		if r.Degraded() {
			return true
		}
	}
	return false
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
