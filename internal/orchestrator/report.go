// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type (
	// Result is the outcome for one description or SDK manifest.
	Result struct {
		Path string
		// AppID is set once the description compiled.
		AppID string
		// Label is the best available name: app ID, else the path.
		Label string
		Err   error
	}

	// Report aggregates a batch.
	Report struct {
		Results []Result
		// DeltasErr is set when static delta generation failed.
		DeltasErr error
	}
)

// OK reports whether every step of the batch succeeded.
func (r *Report) OK() bool {
	if r == nil {
		return false
	}
	if r.DeltasErr != nil {
		return false
	}
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Succeeded counts successful results.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the failed results in batch order.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary renders the batch as a table.
func (r *Report) Summary(styles Styles) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TARGET", "SOURCE", "RESULT").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || col != 2 || row < 0 || row >= len(r.Results) {
				return base
			}
			if r.Results[row].Err != nil {
				return styles.Fail.Padding(0, 1)
			}
			return styles.Success.Padding(0, 1)
		})

	for _, res := range r.Results {
		status := "ok"
		if res.Err != nil {
			status = firstLine(res.Err.Error())
		}
		src := ""
		if res.Path != "" {
			src = filepath.Base(res.Path)
		}
		t.Row(res.Label, src, status)
	}
	return t.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
