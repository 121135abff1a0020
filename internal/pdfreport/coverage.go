// Package pdfreport extracts time-use statistics from the ATUS news
// release PDF: the narrative summary page plus the demographic leisure
// tables (11A/11B). Extraction is regex-based against pdftotext layout
// output, so every pass reports coverage of the expected statistics
// instead of failing silently on unmatched patterns.
package pdfreport

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/atusdev/timeuse-cli/internal/model"
)

// summaryStats are the statistics the summary page is expected to yield.
var summaryStats = []string{
	model.StatTotalLeisure,
	model.StatTV,
	model.StatGamingAndComp,
	model.StatSocializing,
	model.StatMenLeisure,
	model.StatWomenLeisure,
}

// Coverage records which expected statistics an extraction pass found.
type Coverage struct {
	found map[string]bool
}

func newCoverage() *Coverage {
	return &Coverage{found: make(map[string]bool)}
}

func (c *Coverage) mark(name string) {
	c.found[name] = true
}

// Found reports whether the named statistic was extracted.
func (c *Coverage) Found(name string) bool {
	return c.found[name]
}

// Missing returns the expected statistics that were not extracted,
// sorted for stable output.
func (c *Coverage) Missing() []string {
	var missing []string
	for _, name := range summaryStats {
		if !c.found[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Complete reports whether every expected statistic was extracted.
func (c *Coverage) Complete() bool {
	return len(c.Missing()) == 0
}

// Err returns an error naming the missing statistics, or nil when the
// pass was complete. Used by strict mode.
func (c *Coverage) Err() error {
	missing := c.Missing()
	if len(missing) == 0 {
		return nil
	}
	return eris.Errorf("pdfreport: statistics not found in summary: %s", strings.Join(missing, ", "))
}
