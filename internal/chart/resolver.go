package chart

// Renderer names a drawing component. The UI owns the concrete components.
type Renderer int

const (
	RendererNone Renderer = iota
	RendererMixed
	RendererCumulative
	RendererVariation
)

func (r Renderer) String() string {
	switch r {
	case RendererMixed:
		return "mixed"
	case RendererCumulative:
		return "cumulative"
	case RendererVariation:
		return "variation"
	default:
		return "none"
	}
}

// Resolve picks the renderer for a statistic.
//
// An empty id resolves to RendererNone. Direct charts ignore showVariations.
// Indicators resolve to the cumulative renderer, or to the variation renderer
// when showVariations is set. Ids missing from the registry panic.
func (r *Registry) Resolve(id StatID, showVariations bool) Renderer {
	if id == "" {
		return RendererNone
	}

	switch c := r.MustLookup(id).Chart.(type) {
	case DirectChart:
		return c.Renderer
	case IndicatorChart:
		if showVariations {
			return RendererVariation
		}
		return RendererCumulative
	default:
		return RendererNone
	}
}
