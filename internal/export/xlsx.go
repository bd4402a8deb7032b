package export

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/h200-index/internal/model"
)

// WriteXLSX writes index history to an XLSX workbook: one sheet with
// the index series, one with the full per-provider contribution
// breakdowns.
func WriteXLSX(path string, results []model.IndexResult) error {
	f := xlsx.NewFile()

	indexSheet, err := f.AddSheet("Index")
	if err != nil {
		return eris.Wrap(err, "export: add index sheet")
	}
	header := indexSheet.AddRow()
	for _, h := range []string{"Timestamp", "Index (USD/GPU-hr)", "Outcome", "Hyperscaler", "Neocloud", "Warnings"} {
		header.AddCell().SetString(h)
	}
	for _, r := range results {
		row := indexSheet.AddRow()
		row.AddCell().SetString(r.Timestamp.UTC().Format(time.RFC3339))
		row.AddCell().SetFloat(r.IndexValue)
		row.AddCell().SetString(string(r.Outcome))
		row.AddCell().SetFloat(r.HyperscalerComponent)
		row.AddCell().SetFloat(r.NeocloudComponent)
		row.AddCell().SetInt(len(r.Warnings))
	}

	contribSheet, err := f.AddSheet("Contributions")
	if err != nil {
		return eris.Wrap(err, "export: add contributions sheet")
	}
	header = contribSheet.AddRow()
	for _, h := range []string{"Timestamp", "Provider", "Tier", "Effective Price", "Weight", "Contribution"} {
		header.AddCell().SetString(h)
	}
	for _, r := range results {
		for _, c := range r.Contributions {
			row := contribSheet.AddRow()
			row.AddCell().SetString(r.Timestamp.UTC().Format(time.RFC3339))
			row.AddCell().SetString(c.Provider)
			row.AddCell().SetString(string(c.Tier))
			row.AddCell().SetFloat(c.EffectivePrice)
			row.AddCell().SetFloat(c.Weight)
			row.AddCell().SetFloat(c.Contribution)
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
