package replay

import "fmt"

// Stats counts the predictions of one replay.
type Stats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
}

// Add records the outcome of one prediction.
func (s *Stats) Add(correct bool) {
	s.Predictions++
	if correct {
		s.Correct++
	} else {
		s.Mispredictions++
	}
}

// Accuracy returns the fraction of correct predictions in [0, 1]. The
// second result is false when no prediction was made, in which case the
// accuracy is undefined.
func (s Stats) Accuracy() (float64, bool) {
	if s.Predictions == 0 {
		return 0, false
	}
	return float64(s.Correct) / float64(s.Predictions), true
}

// MispredictionRate returns the fraction of incorrect predictions, with the
// same undefined case as Accuracy.
func (s Stats) MispredictionRate() (float64, bool) {
	if s.Predictions == 0 {
		return 0, false
	}
	return float64(s.Mispredictions) / float64(s.Predictions), true
}

// String renders the accuracy, or "undefined" for an empty replay.
func (s Stats) String() string {
	acc, ok := s.Accuracy()
	if !ok {
		return "undefined"
	}
	return fmt.Sprintf("%.4f (%d/%d)", acc, s.Correct, s.Predictions)
}
