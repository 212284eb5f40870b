package analysis

import "github.com/JonnyWalker81/neuralpath/backend/internal/models"

// NeutralLevel stands in for any symptom level the user did not record
const NeutralLevel = 3.0

func levelOrNeutral(level *int) float64 {
	if level == nil {
		return NeutralLevel
	}
	return float64(*level)
}

// levels returns mood, anxiety and anhedonia with NeutralLevel substituted
// for anything missing. All other code goes through here or Score.
func levels(r models.SymptomRecord) (mood, anxiety, anhedonia float64) {
	return levelOrNeutral(r.Mood), levelOrNeutral(r.Anxiety), levelOrNeutral(r.Anhedonia)
}

// Score converts one record into its composite wellbeing score:
// mood - (anxiety + anhedonia) / 2. Higher is better.
func Score(r models.SymptomRecord) float64 {
	mood, anxiety, anhedonia := levels(r)
	return mood - (anxiety+anhedonia)/2
}

func scores(records []models.SymptomRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = Score(r)
	}
	return out
}
