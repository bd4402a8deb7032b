// Package export renders index history for analysts: CSV for the
// on-chain/reporting tooling, XLSX for manual review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/model"
)

// WriteCSV writes one row per cycle result to w, most recent first.
func WriteCSV(w io.Writer, results []model.IndexResult) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "index_value", "outcome", "hyperscaler_component", "neocloud_component", "providers", "warnings"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, r := range results {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			fmt.Sprintf("%.4f", r.IndexValue),
			string(r.Outcome),
			fmt.Sprintf("%.4f", r.HyperscalerComponent),
			fmt.Sprintf("%.4f", r.NeocloudComponent),
			fmt.Sprintf("%d", len(r.Contributions)),
			strings.Join(r.Warnings, "; "),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
