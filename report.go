package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"lizconv/driver"
	"lizconv/theme"
)

func renderReport(r *driver.Report, th *theme.Theme) string {
	ok := th.Style(th.Success())
	warn := th.Style(th.Warning())
	bad := th.Style(th.Error()).Bold(true)
	dim := th.Style(th.Muted())

	var out strings.Builder
	for _, res := range r.Results {
		name := filepath.Base(res.Input)
		switch res.Status {
		case driver.Written, driver.Traced:
			out.WriteString(ok.Render(fmt.Sprintf("%-7s", res.Status)))
			fmt.Fprintf(&out, " %s  %d notes  %d bytes  %.1fs", name, res.Notes, res.Bytes, float64(res.DurationMs)/1000)
			if res.Division.Fallback {
				out.WriteString(warn.Render("  (fallback division)"))
			}
		case driver.Empty:
			out.WriteString(warn.Render(fmt.Sprintf("%-7s", res.Status)))
			fmt.Fprintf(&out, " %s", name)
		case driver.Failed:
			out.WriteString(bad.Render(fmt.Sprintf("%-7s", res.Status)))
			fmt.Fprintf(&out, " %s  %v", name, res.Err)
		}
		out.WriteString("\n")
	}

	summary := fmt.Sprintf("%d written, %d traced, %d empty, %d failed",
		r.Count(driver.Written), r.Count(driver.Traced), r.Count(driver.Empty), r.Count(driver.Failed))
	out.WriteString(dim.Render(summary))
	out.WriteString("\n")
	return out.String()
}
