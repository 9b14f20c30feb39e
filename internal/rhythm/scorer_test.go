package rhythm

import (
	"errors"
	"testing"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/sleep"
)

func testPolicy() config.ScoringPolicy {
	return config.ScoringPolicy{
		StabilityStdDevMin:  30,
		WeekendShiftZeroMin: 60,
		StableScoreFloor:    70,
		StableMaxDrop:       10,
	}
}

// 2026-08-24 — понедельник, 29/30 — выходные.
var weekDates = []string{
	"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27",
	"2026-08-28", "2026-08-29", "2026-08-30",
}

func weekSamples(bedtimes, wakes []string) []sleep.SleepSample {
	samples := make([]sleep.SleepSample, len(bedtimes))
	for i := range bedtimes {
		samples[i] = sleep.SleepSample{
			Date:     weekDates[i],
			Bedtime:  bedtimes[i],
			WakeTime: wakes[i],
		}
	}
	return samples
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestScorePerfectWeek(t *testing.T) {
	w, err := NewWindow(weekSamples(repeat("23:00", 7), repeat("07:00", 7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("expected 100, got %d", res.Score)
	}
	if res.BedtimePoints != 35 || res.WakePoints != 35 ||
		res.WeekendShiftPoints != 20 || res.IdealWindowPoints != 10 {
		t.Errorf("unexpected component split: %+v", res)
	}
	if res.LowConfidence {
		t.Error("full week must not be low-confidence")
	}
}

func TestScoreMidnightWraparound(t *testing.T) {
	// Отбои 23:59 и 00:01 отличаются на две минуты, не на сутки.
	bedtimes := []string{"23:59", "00:01", "23:59", "00:01", "23:59", "00:01", "23:59"}
	w, err := NewWindow(weekSamples(bedtimes, repeat("07:00", 7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BedtimePoints < 33 {
		t.Errorf("two-minute jitter must keep near-full credit, got %v", res.BedtimePoints)
	}
}

func TestScoreScatteredBedtimes(t *testing.T) {
	bedtimes := []string{"20:00", "23:30", "02:00", "21:00", "00:45", "19:30", "03:15"}
	w, err := NewWindow(weekSamples(bedtimes, repeat("07:00", 7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BedtimePoints != 0 {
		t.Errorf("scatter beyond threshold must zero bedtime credit, got %v", res.BedtimePoints)
	}
}

func TestScoreWeekendShift(t *testing.T) {
	scorer := NewScorer(testPolicy())

	// Сдвиг на два часа в выходные обнуляет компонент.
	bedtimes := []string{"23:00", "23:00", "23:00", "23:00", "23:00", "01:00", "01:00"}
	w, _ := NewWindow(weekSamples(bedtimes, repeat("07:00", 7)))
	res, err := scorer.Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WeekendShiftPoints != 0 {
		t.Errorf("two-hour weekend shift: expected 0 pts, got %v", res.WeekendShiftPoints)
	}

	// Полчаса сдвига — половина кредита.
	bedtimes = []string{"23:00", "23:00", "23:00", "23:00", "23:00", "23:30", "23:30"}
	w, _ = NewWindow(weekSamples(bedtimes, repeat("07:00", 7)))
	res, err = scorer.Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WeekendShiftPoints != 10 {
		t.Errorf("30-minute weekend shift: expected 10 pts, got %v", res.WeekendShiftPoints)
	}
}

func TestScoreWeekdaysOnlyLowConfidence(t *testing.T) {
	// Окно без выходных: сдвиг не определён, нейтральный полный кредит.
	samples := weekSamples(repeat("23:00", 7), repeat("07:00", 7))[:5]
	w, _ := NewWindow(samples)

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.LowConfidence || res.WeekendShiftPoints != 20 {
		t.Errorf("expected neutral low-confidence shift credit, got %+v", res)
	}
}

func TestScoreSingleSample(t *testing.T) {
	samples := weekSamples(repeat("23:00", 7), repeat("07:00", 7))[:1]
	w, _ := NewWindow(samples)

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.LowConfidence {
		t.Error("single sample must be low-confidence")
	}
	if res.Score != 100 {
		t.Errorf("neutral credit plus in-window bedtime expected 100, got %d", res.Score)
	}
}

func TestScoreIdealWindowMinority(t *testing.T) {
	bedtimes := []string{"21:00", "21:10", "20:50", "21:05", "23:00", "23:10", "22:55"}
	w, _ := NewWindow(weekSamples(bedtimes, repeat("07:00", 7)))

	res, err := NewScorer(testPolicy()).Score(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IdealWindowPoints != 0 {
		t.Errorf("only 3 of 7 bedtimes in window: expected 0 pts, got %v", res.IdealWindowPoints)
	}
}

func TestNewWindow(t *testing.T) {
	if _, err := NewWindow(nil); !errors.Is(err, ErrEmptyWindow) {
		t.Errorf("expected ErrEmptyWindow, got %v", err)
	}

	// Дни без тайминга пропускаются.
	samples := weekSamples(repeat("23:00", 7), repeat("07:00", 7))
	samples[2].Bedtime = ""
	w, err := NewWindow(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Days) != 6 {
		t.Errorf("expected 6 days, got %d", len(w.Days))
	}

	// Лишние дни обрезаются до 7 самых свежих.
	extra := append(weekSamples(repeat("23:00", 7), repeat("07:00", 7)),
		sleep.SleepSample{Date: "2026-08-31", Bedtime: "22:30", WakeTime: "06:30"})
	w, err = NewWindow(extra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Days) != 7 || w.Days[6].Date != "2026-08-31" {
		t.Errorf("expected trailing 7 days ending 2026-08-31, got %+v", w.Days)
	}
}

func TestTrackStability(t *testing.T) {
	scorer := NewScorer(testPolicy())

	st := scorer.TrackStability(Stability{}, nil, 75)
	if st.Status != StatusGood || st.ConsecutiveStableDays != 1 {
		t.Errorf("first stable day: got %+v", st)
	}

	prev := 75
	st = scorer.TrackStability(st, &prev, 74)
	if st.Status != StatusGood || st.ConsecutiveStableDays != 2 {
		t.Errorf("second stable day: got %+v", st)
	}

	// Просадка больше допустимой рвёт серию даже выше порога.
	prev = 90
	st = scorer.TrackStability(st, &prev, 72)
	if st.Status != StatusUnstable || st.ConsecutiveStableDays != 0 {
		t.Errorf("large drop must reset streak: got %+v", st)
	}

	prev = 72
	st = scorer.TrackStability(st, &prev, 65)
	if st.Status != StatusUnstable || st.ConsecutiveStableDays != 0 {
		t.Errorf("below floor must stay unstable: got %+v", st)
	}
}
