package data

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// recordFields maps chiffres-cles.json fields to metric names.
var recordFields = map[string]string{
	"cas_confirmes":       MetricCasConfirmes,
	"hospitalises":        MetricHospitalises,
	"reanimation":         MetricReanimation,
	"deces":               MetricDeces,
	"gueris":              MetricGueris,
	"cas_ehpad":           MetricCasEhpad,
	"cas_confirmes_ehpad": MetricCasConfirmesEhpad,
	"deces_ehpad":         MetricDecesEhpad,
}

// ParseRecords decodes a chiffres-cles.json document into snapshots.
// Rows without a code or a valid date are skipped.
func ParseRecords(body []byte) ([]Snapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("parse records: invalid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, errors.New("parse records: expected a json array")
	}

	var (
		out     []Snapshot
		skipped int
	)
	doc.ForEach(func(_, row gjson.Result) bool {
		code := row.Get("maille_code").String()
		date, err := ParseDate(row.Get("date").String())
		if code == "" || err != nil {
			skipped++
			return true
		}

		s := Snapshot{
			Date:    date,
			Code:    code,
			Name:    row.Get("maille_nom").String(),
			Metrics: make(map[string]float64),
		}
		for field, metric := range recordFields {
			v := row.Get(field)
			if v.Exists() && v.Type == gjson.Number {
				s.Metrics[metric] = v.Float()
			}
		}
		out = append(out, s)
		return true
	})

	if len(out) == 0 && skipped > 0 {
		return nil, fmt.Errorf("parse records: %d rows, none usable", skipped)
	}
	return out, nil
}
