package overlay

const (
	FullEmphasis    = 1.0
	ReducedEmphasis = 0.35
)

// LegEmphasis gives the drawing weight of every leg. All legs are fully
// emphasised when activeLeg is empty or unknown.
func (s *Selector) LegEmphasis(activeLeg string) map[string]float64 {
	selected := activeLeg != "" && s.track.HasLeg(activeLeg)

	res := make(map[string]float64)
	for _, name := range s.track.LegNames() {
		if !selected || name == activeLeg {
			res[name] = FullEmphasis
		} else {
			res[name] = ReducedEmphasis
		}
	}
	return res
}
