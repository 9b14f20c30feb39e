package status

// Band — ординальная полоса статуса для любого счёта 0..100.
type Band string

const (
	BandOptimal        Band = "optimal"         // 80..100
	BandGood           Band = "good"            // 60..79
	BandFair           Band = "fair"            // 40..59
	BandDeclining      Band = "declining"       // 20..39
	BandNeedsAttention Band = "needs_attention" // 0..19
)

// Classify — детерминированное отображение счёта в полосу.
// Значения вне 0..100 сначала зажимаются, функция тотальна.
func Classify(score int) Band {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	switch {
	case score >= 80:
		return BandOptimal
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	case score >= 20:
		return BandDeclining
	default:
		return BandNeedsAttention
	}
}
