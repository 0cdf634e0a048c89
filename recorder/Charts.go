package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// CreatePlaybackHTML renders the recorded run into dir/playback.html: the
// adopted amounts per subject over time, the final allocation per district,
// and the mean satisfaction curve.
func CreatePlaybackHTML(cr *CampaignRecorder, dir string) error {
	if len(cr.TurnRecords) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("recorder: create output dir: %w", err)
	}

	labels, byDistrict := groupTurnRecords(cr.TurnRecords)
	districts := make([]string, 0, len(byDistrict))
	for name := range byDistrict {
		districts = append(districts, name)
	}
	sort.Strings(districts)
	subjects := cr.TurnRecords[0].Subjects

	page := components.NewPage()
	page.AddCharts(
		adoptionChart(labels, districts, subjects, byDistrict),
		finalAllocationChart(districts, subjects, byDistrict),
		satisfactionChart(labels, districts, byDistrict),
	)

	file, err := os.Create(filepath.Join(dir, "playback.html"))
	if err != nil {
		return fmt.Errorf("recorder: create playback.html: %w", err)
	}
	defer file.Close()
	return page.Render(file)
}

// groupTurnRecords splits the flat turn records per district and builds the
// shared time axis. Every district records every turn, so the axis is taken
// from whichever district saw the most turns.
func groupTurnRecords(records []TurnRecord) ([]string, map[string][]TurnRecord) {
	byDistrict := make(map[string][]TurnRecord)
	for _, rec := range records {
		byDistrict[rec.District] = append(byDistrict[rec.District], rec)
	}

	longest := 0
	labels := []string{}
	for _, recs := range byDistrict {
		if len(recs) > longest {
			longest = len(recs)
			labels = make([]string, len(recs))
			for i, rec := range recs {
				labels[i] = fmt.Sprintf("i%d t%d", rec.Iteration, rec.Turn)
			}
		}
	}
	return labels, byDistrict
}

func adoptionChart(labels []string, districts, subjects []string, byDistrict map[string][]TurnRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Adopted budget over time",
			Subtitle: "one line per district and subject",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
	)
	line.SetXAxis(labels)
	for _, district := range districts {
		recs := byDistrict[district]
		for j, subject := range subjects {
			data := make([]opts.LineData, len(recs))
			for i, rec := range recs {
				v := 0
				if j < len(rec.Adopted) {
					v = rec.Adopted[j]
				}
				data[i] = opts.LineData{Value: v}
			}
			line.AddSeries(fmt.Sprintf("%s / %s", district, subject), data)
		}
	}
	return line
}

func finalAllocationChart(districts, subjects []string, byDistrict map[string][]TurnRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Final adopted allocation",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
	)
	bar.SetXAxis(subjects)
	for _, district := range districts {
		recs := byDistrict[district]
		last := recs[len(recs)-1]
		data := make([]opts.BarData, len(subjects))
		for j := range subjects {
			v := 0
			if j < len(last.Adopted) {
				v = last.Adopted[j]
			}
			data[j] = opts.BarData{Value: v}
		}
		bar.AddSeries(district, data)
	}
	return bar
}

func satisfactionChart(labels, districts []string, byDistrict map[string][]TurnRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Mean citizen satisfaction",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
	)
	line.SetXAxis(labels)
	for _, district := range districts {
		recs := byDistrict[district]
		data := make([]opts.LineData, len(recs))
		for i, rec := range recs {
			data[i] = opts.LineData{Value: rec.SatisfactionMean}
		}
		line.AddSeries(district, data)
	}
	return line
}
