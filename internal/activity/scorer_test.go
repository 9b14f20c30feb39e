package activity

import (
	"math/rand"
	"testing"

	"github.com/fdg312/energy-hub/internal/config"
)

func testPolicy() config.ScoringPolicy {
	return config.ScoringPolicy{
		StepsGoal:         8000,
		ActiveMinutesGoal: 30,
		SedentaryFullMin:  60,
		SedentaryZeroMin:  180,
	}
}

func bp(v bool) *bool { return &v }

func TestScoreFullDay(t *testing.T) {
	scorer := NewScorer(testPolicy())
	res, err := scorer.Score(ActivitySample{
		Date:                "2026-08-30",
		Steps:               9500,
		ActiveMinutes:       45,
		LongestSedentaryMin: 40,
		ExerciseGoalMet:     bp(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("expected 100, got %d", res.Score)
	}
	if res.StepsPoints != 40 || res.ActiveMinutesPoints != 30 || res.SedentaryPoints != 20 || res.GoalPoints != 10 {
		t.Errorf("unexpected component split: %+v", res)
	}
}

func TestScoreStepsCappedAtGoal(t *testing.T) {
	// 30k шагов не дают больше кредита, чем цель 8k.
	scorer := NewScorer(testPolicy())
	res, _ := scorer.Score(ActivitySample{Date: "2026-08-30", Steps: 30000})
	if res.StepsPoints != 40 {
		t.Errorf("expected capped 40 pts, got %v", res.StepsPoints)
	}

	res, _ = scorer.Score(ActivitySample{Date: "2026-08-30", Steps: 4000})
	if res.StepsPoints != 20 {
		t.Errorf("expected 20 pts for half of the goal, got %v", res.StepsPoints)
	}
}

func TestScoreSedentaryPenalty(t *testing.T) {
	scorer := NewScorer(testPolicy())

	cases := []struct {
		longest int
		want    float64
	}{
		{0, 20},
		{59, 20},
		{120, 10}, // halfway between 60 and 180
		{180, 0},
		{400, 0},
	}
	for _, tc := range cases {
		res, err := scorer.Score(ActivitySample{Date: "2026-08-30", LongestSedentaryMin: tc.longest})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.SedentaryPoints != tc.want {
			t.Errorf("longest %d min: expected %v pts, got %v", tc.longest, tc.want, res.SedentaryPoints)
		}
	}
}

func TestScoreGoalDefaulted(t *testing.T) {
	scorer := NewScorer(testPolicy())

	res, _ := scorer.Score(ActivitySample{Date: "2026-08-30"})
	if !res.GoalDefaulted || res.GoalPoints != 5 {
		t.Errorf("missing goal must yield neutral 5 pts, got %+v", res)
	}

	res, _ = scorer.Score(ActivitySample{Date: "2026-08-30", ExerciseGoalMet: bp(false)})
	if res.GoalDefaulted || res.GoalPoints != 0 {
		t.Errorf("explicit false must yield 0 pts, got %+v", res)
	}
}

func TestScoreValidation(t *testing.T) {
	scorer := NewScorer(testPolicy())

	if _, err := scorer.Score(ActivitySample{Date: "2026-08-30", Steps: -1}); err == nil {
		t.Error("expected error for negative steps")
	}
	if _, err := scorer.Score(ActivitySample{Date: "yesterday"}); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestScoreClampedOnRandomInputs(t *testing.T) {
	scorer := NewScorer(testPolicy())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		res, err := scorer.Score(ActivitySample{
			Date:                "2026-08-30",
			Steps:               rng.Intn(40000),
			ActiveMinutes:       rng.Intn(300),
			LongestSedentaryMin: rng.Intn(600),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("score out of range: %d", res.Score)
		}
	}
}
