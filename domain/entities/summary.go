package entities

// RunSummary accumulates the outcome of repeated authorization cycles
type RunSummary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Record - adds one cycle outcome
func (s *RunSummary) Record(succeeded bool) {
	s.Attempted++
	if succeeded {
		s.Succeeded++
	}
}

// Failed returns the number of failed cycles
func (s RunSummary) Failed() int {
	return s.Attempted - s.Succeeded
}

// SuccessRate returns the share of succeeded cycles in percent
func (s RunSummary) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted) * 100
}
