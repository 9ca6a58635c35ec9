// Package chart maps selectable statistics to the chart that renders them.
package chart

import (
	"errors"
	"fmt"

	"covidboard/internal/data"
)

// StatID identifies a selectable statistic.
type StatID string

const (
	StatMixed             StatID = "mixed"
	StatConfirmed         StatID = "confirmed"
	StatHospitalises      StatID = "hospitalises"
	StatReanimation       StatID = "reanimation"
	StatDeces             StatID = "deces"
	StatGueris            StatID = "gueris"
	StatCasEhpad          StatID = "casEhpad"
	StatCasConfirmesEhpad StatID = "casConfirmesEhpad"
	StatDecesEhpad        StatID = "decesEhpad"
)

// DefaultStat is selected when the statistics view is mounted.
const DefaultStat = StatMixed

// Picker groups.
const (
	GroupOverview = "Vue d’ensemble"
	GroupHospital = "Données hospitalières"
	GroupEhpad    = "Données EHPAD"
)

// ErrUnknownStat is returned when an id is not registered.
var ErrUnknownStat = errors.New("unknown statistic")

// Options configures how an indicator is drawn.
type Options struct {
	Label      string `json:"label"`
	MetricName string `json:"metricName"`
	Color      string `json:"color"`
}

// Descriptor is how a statistic is charted: either a DirectChart or an IndicatorChart.
type Descriptor interface {
	isDescriptor()
}

// DirectChart renders with a fixed renderer, whatever the variations flag.
type DirectChart struct {
	Renderer Renderer
}

// IndicatorChart renders one metric, cumulative or as daily variations.
type IndicatorChart struct {
	Options Options
}

func (DirectChart) isDescriptor()    {}
func (IndicatorChart) isDescriptor() {}

// StatDescriptor describes one selectable statistic.
type StatDescriptor struct {
	ID    StatID
	Name  string
	Group string
	Chart Descriptor
}

// IsIndicator reports whether the statistic can switch to daily variations.
func (d StatDescriptor) IsIndicator() bool {
	_, ok := d.Chart.(IndicatorChart)
	return ok
}

// Options returns the indicator options, or the zero value for direct charts.
func (d StatDescriptor) Options() Options {
	if ind, ok := d.Chart.(IndicatorChart); ok {
		return ind.Options
	}
	return Options{}
}

// Registry is an immutable, ordered set of statistic descriptors.
type Registry struct {
	order []StatID
	byID  map[StatID]StatDescriptor
}

// NewRegistry builds a registry. Duplicate ids and nil charts are rejected.
func NewRegistry(descs ...StatDescriptor) (*Registry, error) {
	r := &Registry{byID: make(map[StatID]StatDescriptor, len(descs))}
	for _, d := range descs {
		if d.ID == "" {
			return nil, errors.New("registry: empty stat id")
		}
		if d.Chart == nil {
			return nil, fmt.Errorf("registry: %s has no chart", d.ID)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate stat %s", d.ID)
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

func indicator(id StatID, name, group, label, metric, color string) StatDescriptor {
	return StatDescriptor{
		ID:    id,
		Name:  name,
		Group: group,
		Chart: IndicatorChart{Options: Options{Label: label, MetricName: metric, Color: color}},
	}
}

var defaultRegistry = mustRegistry(
	StatDescriptor{ID: StatMixed, Name: "Tout afficher", Group: GroupOverview, Chart: DirectChart{Renderer: RendererMixed}},
	indicator(StatConfirmed, "Cas confirmés", GroupHospital, "Cas confirmés", data.MetricCasConfirmes, "orange"),
	indicator(StatHospitalises, "Hospitalisations", GroupHospital, "Hospitalisés", data.MetricHospitalises, "darkGrey"),
	indicator(StatReanimation, "Réanimations", GroupHospital, "Réanimations", data.MetricReanimation, "darkerGrey"),
	indicator(StatDeces, "Décès à l’hôpital", GroupHospital, "Décès à l’hôpital", data.MetricDeces, "red"),
	indicator(StatGueris, "Retours à domicile", GroupHospital, "Retours à domicile", data.MetricGueris, "green"),
	indicator(StatCasEhpad, "Cas total", GroupEhpad, "Cas total", data.MetricCasEhpad, "orange"),
	indicator(StatCasConfirmesEhpad, "Cas confirmés", GroupEhpad, "Cas confirmés", data.MetricCasConfirmesEhpad, "darkOrange"),
	indicator(StatDecesEhpad, "Décès", GroupEhpad, "Décès", data.MetricDecesEhpad, "darkRed"),
)

func mustRegistry(descs ...StatDescriptor) *Registry {
	r, err := NewRegistry(descs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the built-in registry of COVID-19 statistics.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id StatID) (StatDescriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// MustLookup returns the descriptor for id and panics if it is not registered.
func (r *Registry) MustLookup(id StatID) StatDescriptor {
	d, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("chart: %v: %q", ErrUnknownStat, id))
	}
	return d
}

// Has reports whether id is registered.
func (r *Registry) Has(id StatID) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns the registered ids in display order.
func (r *Registry) IDs() []StatID {
	out := make([]StatID, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptors returns the descriptors in display order.
func (r *Registry) Descriptors() []StatDescriptor {
	out := make([]StatDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Indicators returns the indicator descriptors in display order.
func (r *Registry) Indicators() []StatDescriptor {
	var out []StatDescriptor
	for _, id := range r.order {
		if d := r.byID[id]; d.IsIndicator() {
			out = append(out, d)
		}
	}
	return out
}

// MixedSeries lists the indicators drawn together by the mixed chart.
func (r *Registry) MixedSeries() []Options {
	var out []Options
	for _, id := range []StatID{StatHospitalises, StatReanimation, StatDeces, StatGueris} {
		if d, ok := r.byID[id]; ok && d.IsIndicator() {
			out = append(out, d.Options())
		}
	}
	return out
}
