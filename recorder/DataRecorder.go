package recorder

import "gonum.org/v1/gonum/stat"

// CampaignRecorder accumulates everything an experiment run produces. The
// server appends records as play progresses; exporters read them afterwards.
type CampaignRecorder struct {
	TurnRecords     []TurnRecord
	CitizenRecords  []CitizenRecord
	CeremonyRecords []CeremonyRecord
}

func CreateRecorder() *CampaignRecorder {
	return &CampaignRecorder{
		TurnRecords:     []TurnRecord{},
		CitizenRecords:  []CitizenRecord{},
		CeremonyRecords: []CeremonyRecord{},
	}
}

func (cr *CampaignRecorder) RecordTurn(rec TurnRecord) {
	cr.TurnRecords = append(cr.TurnRecords, rec)
}

func (cr *CampaignRecorder) RecordCitizens(recs []CitizenRecord) {
	cr.CitizenRecords = append(cr.CitizenRecords, recs...)
}

func (cr *CampaignRecorder) RecordCeremony(rec CeremonyRecord) {
	cr.CeremonyRecords = append(cr.CeremonyRecords, rec)
}

// SatisfactionStats summarizes a batch of satisfaction scores. The spread
// is reported as zero for fewer than two samples, where a sample standard
// deviation is undefined.
func SatisfactionStats(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return mean, std
}
