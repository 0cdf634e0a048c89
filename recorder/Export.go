package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ExportToCSV writes the recorder's contents into dir as turns.csv,
// citizens.csv and ceremonies.csv. The directory is created if needed.
func ExportToCSV(cr *CampaignRecorder, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("recorder: create output dir: %w", err)
	}

	turnRows := make([][]string, 0, len(cr.TurnRecords))
	for _, rec := range cr.TurnRecords {
		for j, subject := range rec.Subjects {
			adopted := 0
			if j < len(rec.Adopted) {
				adopted = rec.Adopted[j]
			}
			continuous := 0.0
			if j < len(rec.Continuous) {
				continuous = rec.Continuous[j]
			}
			turnRows = append(turnRows, []string{
				strconv.Itoa(rec.Iteration),
				strconv.Itoa(rec.Turn),
				rec.District,
				subject,
				strconv.Itoa(adopted),
				formatAmount(continuous),
				formatAmount(rec.Phantom),
				formatAmount(rec.SatisfactionMean),
				formatAmount(rec.SatisfactionStd),
			})
		}
	}
	err := writeCSV(filepath.Join(dir, "turns.csv"),
		[]string{"iteration", "turn", "district", "subject", "adopted", "continuous", "phantom", "satisfaction_mean", "satisfaction_std"},
		turnRows)
	if err != nil {
		return err
	}

	citizenRows := make([][]string, 0, len(cr.CitizenRecords))
	for _, rec := range cr.CitizenRecords {
		citizenRows = append(citizenRows, []string{
			strconv.Itoa(rec.Iteration),
			strconv.Itoa(rec.Turn),
			rec.District,
			strconv.Itoa(rec.Name),
			rec.Persona,
			formatAmount(rec.Satisfaction),
			formatAmount(rec.SubmittedSum),
			formatAmount(rec.StatedSum),
		})
	}
	err = writeCSV(filepath.Join(dir, "citizens.csv"),
		[]string{"iteration", "turn", "district", "citizen", "persona", "satisfaction", "submitted_sum", "stated_sum"},
		citizenRows)
	if err != nil {
		return err
	}

	ceremonyRows := make([][]string, 0, len(cr.CeremonyRecords))
	for _, rec := range cr.CeremonyRecords {
		for i, district := range rec.Districts {
			delegate := -1
			if i < len(rec.Delegates) {
				delegate = rec.Delegates[i]
			}
			flagship := ""
			if i < len(rec.Hosts) && rec.Hosts[i] >= 0 && rec.Hosts[i] < len(rec.Flagships) {
				flagship = rec.Flagships[rec.Hosts[i]]
			}
			share := 0.0
			if i < len(rec.RentShares) {
				share = rec.RentShares[i]
			}
			ceremonyRows = append(ceremonyRows, []string{
				strconv.Itoa(rec.Iteration),
				district,
				strconv.Itoa(delegate),
				flagship,
				formatAmount(share),
				formatAmount(rec.Welfare),
			})
		}
	}
	return writeCSV(filepath.Join(dir, "ceremonies.csv"),
		[]string{"iteration", "district", "delegate", "flagship", "rent_share", "welfare"},
		ceremonyRows)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recorder: create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("recorder: write %s: %w", filepath.Base(path), err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("recorder: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
