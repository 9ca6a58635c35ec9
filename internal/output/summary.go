package output

import (
	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/engine"
)

// UI/view-model types (no printing here)
type Item struct {
	Stat     chart.StatID
	Label    string
	Value    float64
	HasValue bool
	Delta    float64
	HasDelta bool
	Trend    string
	Color    string
	// GoodWhenUp marks indicators where a rise is good news.
	GoodWhenUp bool
}

type Section struct {
	ID    string
	Title string
	Items []Item
}

type Summary struct {
	Title    string
	Date     string
	Code     string
	Sections []Section
}

// BuildSummary turns a report and its comparison point into counter sections,
// one per registry group, in registry order.
func BuildSummary(reg *chart.Registry, current, previous *data.Report) Summary {
	sum := Summary{Title: data.NationalName}
	if current == nil {
		return sum
	}
	if current.Name != "" {
		sum.Title = current.Name
	}
	sum.Date = current.DateString()
	sum.Code = current.Code

	index := map[string]int{}
	for _, d := range reg.Indicators() {
		opts := d.Options()
		it := Item{
			Stat:  d.ID,
			Label: d.Name,
			Color: opts.Color,
		}
		it.Value, it.HasValue = current.Value(opts.MetricName)
		it.Delta, it.HasDelta = engine.Delta(current, previous, opts.MetricName)
		it.Trend = engine.Trend(it.Delta)
		it.GoodWhenUp = d.ID == chart.StatGueris

		idx, ok := index[d.Group]
		if !ok {
			idx = len(sum.Sections)
			index[d.Group] = idx
			sum.Sections = append(sum.Sections, Section{ID: d.Group, Title: d.Group})
		}
		sum.Sections[idx].Items = append(sum.Sections[idx].Items, it)
	}
	return sum
}

func (s Summary) SectionByID(id string) *Section {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByStat(id chart.StatID) *Item {
	for i := range s.Items {
		if s.Items[i].Stat == id {
			return &s.Items[i]
		}
	}
	return nil
}
