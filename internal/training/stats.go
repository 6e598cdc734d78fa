package training

// Stats summarises a training run
type Stats struct {
	Games      int
	Record     int
	TotalScore int
	// Per-game score and running mean, index-aligned
	Scores     []int
	MeanScores []float64
}

func (s *Stats) record(score int) (newRecord bool) {
	s.Games++
	s.TotalScore += score
	s.Scores = append(s.Scores, score)
	s.MeanScores = append(s.MeanScores, float64(s.TotalScore)/float64(s.Games))
	if score > s.Record {
		s.Record = score
		return true
	}
	return false
}

// MeanScore returns the mean over all finished games
func (s Stats) MeanScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}
