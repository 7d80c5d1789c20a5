package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/samvad-hq/quake-harvester/internal/domain"
)

const emptyMessage = "No earthquakes found."

type row struct {
	domain.Earthquake
	Display domain.Display `json:"display"`
}

func renderQuakes(out io.Writer, list []domain.Earthquake, loc *time.Location, asJSON bool) error {
	if asJSON {
		rows := make([]row, 0, len(list))
		for _, q := range list {
			rows = append(rows, row{Earthquake: q, Display: domain.NewDisplay(q, loc)})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(out, emptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MAG\tCOLOR\tOFFSET\tLOCATION\tDATE\tTIME")
	for _, q := range list {
		d := domain.NewDisplay(q, loc)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", d.Magnitude, d.Color, d.Offset, d.Location, d.Date, d.Time)
	}
	return tw.Flush()
}
