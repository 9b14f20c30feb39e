package scores

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/activity"
	"github.com/fdg312/energy-hub/internal/battery"
	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/hrv"
	"github.com/fdg312/energy-hub/internal/rhythm"
	"github.com/fdg312/energy-hub/internal/sleep"
	"github.com/fdg312/energy-hub/internal/statkit"
	"github.com/fdg312/energy-hub/internal/status"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
	"github.com/fdg312/energy-hub/internal/weather"
)

const (
	baselineWindowDays = 30
	trendWindowDays    = 7
	rhythmWindowDays   = 7
)

// Service — бизнес-логика скоринга и батареи поверх хранилища.
// Сами скореры чистые, вся работа с историей и состоянием живёт тут.
type Service struct {
	profileStorage storage.Storage
	samplesStorage storage.SamplesStorage
	scoresStorage  storage.ScoresStorage
	batteryStorage storage.BatteryStorage
	rhythmStorage  storage.RhythmStorage
	weather        weather.Provider

	sleepScorer    *sleep.Scorer
	hrvScorer      *hrv.Scorer
	activityScorer *activity.Scorer
	rhythmScorer   *rhythm.Scorer
	engine         *battery.Engine

	now func() time.Time
}

// NewService создаёт сервис со скорерами из политики конфигурации
func NewService(
	cfg *config.Config,
	profileStorage storage.Storage,
	samplesStorage storage.SamplesStorage,
	scoresStorage storage.ScoresStorage,
	batteryStorage storage.BatteryStorage,
	rhythmStorage storage.RhythmStorage,
	weatherProvider weather.Provider,
) *Service {
	return &Service{
		profileStorage: profileStorage,
		samplesStorage: samplesStorage,
		scoresStorage:  scoresStorage,
		batteryStorage: batteryStorage,
		rhythmStorage:  rhythmStorage,
		weather:        weatherProvider,
		sleepScorer:    sleep.NewScorer(cfg.Scoring),
		hrvScorer:      hrv.NewScorer(cfg.Scoring),
		activityScorer: activity.NewScorer(cfg.Scoring),
		rhythmScorer:   rhythm.NewScorer(cfg.Scoring),
		engine:         battery.NewEngine(cfg.Battery),
		now:            time.Now,
	}
}

// SyncSamples сохраняет батч дневных образцов (upsert по дню и виду)
func (s *Service) SyncSamples(ctx context.Context, req SyncSamplesRequest) (*SyncSamplesResponse, error) {
	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	resp := &SyncSamplesResponse{Status: "ok"}

	for _, sample := range req.Sleep {
		if err := sample.Validate(); err != nil {
			return nil, err
		}
		payload, err := json.Marshal(sample)
		if err != nil {
			return nil, err
		}
		if err := s.samplesStorage.UpsertDailySample(ctx, req.ProfileID, sample.Date, storage.SampleKindSleep, payload); err != nil {
			return nil, err
		}
		resp.UpsertedSleep++
	}

	for _, sample := range req.HRV {
		if err := sample.Validate(); err != nil {
			return nil, err
		}
		payload, err := json.Marshal(sample)
		if err != nil {
			return nil, err
		}
		if err := s.samplesStorage.UpsertDailySample(ctx, req.ProfileID, sample.Date, storage.SampleKindHRV, payload); err != nil {
			return nil, err
		}
		resp.UpsertedHRV++
	}

	for _, sample := range req.Activity {
		if err := sample.Validate(); err != nil {
			return nil, err
		}
		payload, err := json.Marshal(sample)
		if err != nil {
			return nil, err
		}
		if err := s.samplesStorage.UpsertDailySample(ctx, req.ProfileID, sample.Date, storage.SampleKindActivity, payload); err != nil {
			return nil, err
		}
		resp.UpsertedActivity++
	}

	return resp, nil
}

// Compute — чистый расчёт по образцам запроса. Хранилище не трогается,
// базовые линии и окно ритма приходят по значению.
func (s *Service) Compute(req ComputeRequest) (*ComputeResponse, error) {
	resp := &ComputeResponse{}

	if req.Sleep != nil {
		res, err := s.sleepScorer.Score(*req.Sleep)
		if err != nil {
			return nil, err
		}
		resp.Sleep = &SleepBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	if req.HRV != nil {
		in := hrv.Input{
			Sample:   *req.HRV,
			Baseline: req.HRVBaseline,
			History:  toStatSamples(req.HRVHistory),
		}
		res, err := s.hrvScorer.Score(in)
		if err != nil {
			return nil, err
		}
		resp.HRV = &HRVBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	if req.Activity != nil {
		res, err := s.activityScorer.Score(*req.Activity)
		if err != nil {
			return nil, err
		}
		resp.Activity = &ActivityBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	if len(req.RhythmWindow) > 0 {
		w, err := rhythm.NewWindow(req.RhythmWindow)
		if err != nil {
			return nil, err
		}
		res, err := s.rhythmScorer.Score(w)
		if err != nil {
			return nil, err
		}
		resp.Rhythm = &RhythmBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	return resp, nil
}

// GetDaily считает счета дня по сохранённой истории: базовая линия HRV
// из 30 предыдущих дней, окно ритма из 7, образцы дня по видам.
// Результат сохраняется и накопительное состояние ритма обновляется.
func (s *Service) GetDaily(ctx context.Context, profileID uuid.UUID, date string) (*DailyScoresResponse, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}

	resp := &DailyScoresResponse{ProfileID: profileID, Date: date}

	sleepSample, err := s.loadSleepSample(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	if sleepSample != nil {
		res, err := s.sleepScorer.Score(*sleepSample)
		if err != nil {
			return nil, err
		}
		resp.Sleep = &SleepBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	hrvSample, err := s.loadHRVSample(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	if hrvSample != nil {
		baseline, history, err := s.buildHRVContext(ctx, profileID, date)
		if err != nil {
			return nil, err
		}
		res, err := s.hrvScorer.Score(hrv.Input{Sample: *hrvSample, Baseline: baseline, History: history})
		if err != nil {
			return nil, err
		}
		resp.HRV = &HRVBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	activitySample, err := s.loadActivitySample(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	if activitySample != nil {
		res, err := s.activityScorer.Score(*activitySample)
		if err != nil {
			return nil, err
		}
		resp.Activity = &ActivityBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}
	}

	window, err := s.buildRhythmWindow(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	if window != nil {
		res, err := s.rhythmScorer.Score(*window)
		if err != nil {
			return nil, err
		}
		resp.Rhythm = &RhythmBlock{Score: res.Score, Band: status.Classify(res.Score), Detail: res}

		stability, err := s.updateStability(ctx, profileID, date, res.Score)
		if err != nil {
			return nil, err
		}
		resp.Stability = stability
	}

	if resp.Sleep == nil && resp.HRV == nil && resp.Activity == nil && resp.Rhythm == nil {
		return nil, ErrNoSamples
	}

	if err := s.persistDaily(ctx, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// MorningBattery считает и сохраняет утренний заряд дня.
// Скорость разряда масштабируется погодным фактором на момент вызова.
func (s *Service) MorningBattery(ctx context.Context, req BatteryMorningRequest) (*BatteryResponse, error) {
	now := s.now()

	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}

	profile, err := s.profileStorage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	daily, err := s.GetDaily(ctx, req.ProfileID, date)
	if err != nil {
		return nil, err
	}
	if daily.Sleep == nil || daily.HRV == nil {
		return nil, ErrNoSamples
	}

	w, err := s.weather.Current(ctx)
	if err != nil {
		log.Printf("WARNING: weather fetch failed, assuming neutral conditions: %v", err)
		w = weather.Neutral(now)
	}

	b, err := s.engine.NewDay(daily.Sleep.Score, daily.HRV.Score, battery.Mode(profile.Mode), w, now)
	if err != nil {
		return nil, err
	}

	row := &storage.BatteryDayRow{
		ProfileID:     req.ProfileID,
		Date:          date,
		MorningCharge: b.MorningCharge,
		DrainRate:     b.DrainRate,
		EnvFactor:     s.engine.EnvironmentFactor(w),
		MorningAt:     b.MorningAt,
	}
	if err := s.batteryStorage.UpsertBatteryDay(ctx, row); err != nil {
		return nil, err
	}

	resp := s.batteryResponse(req.ProfileID, date, b, now)
	resp.EnvFactor = row.EnvFactor
	return resp, nil
}

// CurrentBattery пересчитывает уровень на момент чтения от последнего
// сохранённого утреннего заряда.
func (s *Service) CurrentBattery(ctx context.Context, profileID uuid.UUID) (*BatteryResponse, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}

	row, err := s.batteryStorage.GetLatestBatteryDay(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoBatteryDay
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := battery.HumanBattery{
		MorningCharge: row.MorningCharge,
		DrainRate:     row.DrainRate,
		MorningAt:     row.MorningAt,
	}
	b = s.engine.Level(b, now)

	resp := s.batteryResponse(profileID, row.Date, b, now)
	resp.EnvFactor = row.EnvFactor
	return resp, nil
}

func (s *Service) batteryResponse(profileID uuid.UUID, date string, b battery.HumanBattery, now time.Time) *BatteryResponse {
	resp := &BatteryResponse{
		ProfileID:     profileID,
		Date:          date,
		CurrentLevel:  b.CurrentLevel,
		MorningCharge: b.MorningCharge,
		DrainRate:     b.DrainRate,
		State:         b.State,
		LastUpdated:   b.LastUpdated,
	}
	if end, err := s.engine.ProjectedEnd(b, now); err == nil {
		resp.ProjectedEnd = &end
	}
	return resp
}

// updateStability двигает накопительное состояние ритма на новый день.
// Повторный пересчёт того же дня состояние не меняет; разрыв в днях
// рвёт серию стабильности.
func (s *Service) updateStability(ctx context.Context, profileID uuid.UUID, date string, score int) (*rhythm.Stability, error) {
	state, err := s.rhythmStorage.GetRhythmState(ctx, profileID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if state != nil && state.LastDate == date {
		return &rhythm.Stability{
			Status:                state.Status,
			ConsecutiveStableDays: state.ConsecutiveStableDays,
		}, nil
	}

	prev := rhythm.Stability{}
	var prevScore *int
	if state != nil && state.LastDate == addDays(date, -1) {
		prev = rhythm.Stability{
			Status:                state.Status,
			ConsecutiveStableDays: state.ConsecutiveStableDays,
		}
		prevScore = &state.LastScore
	}

	next := s.rhythmScorer.TrackStability(prev, prevScore, score)

	row := &storage.RhythmStateRow{
		ProfileID:             profileID,
		Status:                next.Status,
		ConsecutiveStableDays: next.ConsecutiveStableDays,
		LastDate:              date,
		LastScore:             score,
	}
	if err := s.rhythmStorage.UpsertRhythmState(ctx, row); err != nil {
		return nil, err
	}

	return &next, nil
}

func (s *Service) persistDaily(ctx context.Context, resp *DailyScoresResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	row := &storage.DailyScoreRow{
		ProfileID: resp.ProfileID,
		Date:      resp.Date,
		Payload:   payload,
	}
	if resp.Sleep != nil {
		row.SleepScore = resp.Sleep.Score
	}
	if resp.HRV != nil {
		row.HRVScore = resp.HRV.Score
	}
	if resp.Activity != nil {
		row.ActivityScore = resp.Activity.Score
	}
	if resp.Rhythm != nil {
		row.RhythmScore = resp.Rhythm.Score
	}

	return s.scoresStorage.UpsertDailyScores(ctx, row)
}

func (s *Service) loadSleepSample(ctx context.Context, profileID uuid.UUID, date string) (*sleep.SleepSample, error) {
	row, err := s.samplesStorage.GetDailySample(ctx, profileID, date, storage.SampleKindSleep)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sample sleep.SleepSample
	if err := json.Unmarshal(row.Payload, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *Service) loadHRVSample(ctx context.Context, profileID uuid.UUID, date string) (*hrv.HRVSample, error) {
	row, err := s.samplesStorage.GetDailySample(ctx, profileID, date, storage.SampleKindHRV)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sample hrv.HRVSample
	if err := json.Unmarshal(row.Payload, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *Service) loadActivitySample(ctx context.Context, profileID uuid.UUID, date string) (*activity.ActivitySample, error) {
	row, err := s.samplesStorage.GetDailySample(ctx, profileID, date, storage.SampleKindActivity)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sample activity.ActivitySample
	if err := json.Unmarshal(row.Payload, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

// buildHRVContext собирает базовую линию из 30 предыдущих дней и
// историю последней недели для тренда. День запроса в базовую линию
// не входит.
func (s *Service) buildHRVContext(ctx context.Context, profileID uuid.UUID, date string) (*hrv.Baseline, []statkit.Sample, error) {
	rows, err := s.samplesStorage.ListDailySamples(ctx, profileID, storage.SampleKindHRV,
		addDays(date, -baselineWindowDays), addDays(date, -1))
	if err != nil {
		return nil, nil, err
	}

	var hrvValues, rhrValues []float64
	var history []statkit.Sample
	trendFrom := addDays(date, -(trendWindowDays - 1))

	for _, row := range rows {
		var sample hrv.HRVSample
		if err := json.Unmarshal(row.Payload, &sample); err != nil {
			return nil, nil, err
		}
		hrvValues = append(hrvValues, sample.CurrentMS)
		rhrValues = append(rhrValues, sample.RestingHRBPM)

		if row.Date >= trendFrom {
			day, err := time.Parse("2006-01-02", row.Date)
			if err != nil {
				return nil, nil, err
			}
			history = append(history, statkit.Sample{Date: day, Value: sample.CurrentMS})
		}
	}

	hrvMean, ok := statkit.Mean(hrvValues)
	if !ok {
		return nil, history, nil
	}
	rhrMean, _ := statkit.Mean(rhrValues)

	return &hrv.Baseline{
		HRVMeanMS:     hrvMean,
		RestingHRMean: rhrMean,
		Days:          len(hrvValues),
	}, history, nil
}

// buildRhythmWindow собирает окно из 7 дней тайминга сна, включая день
// запроса. nil без ошибки, когда тайминга нет совсем.
func (s *Service) buildRhythmWindow(ctx context.Context, profileID uuid.UUID, date string) (*rhythm.Window, error) {
	rows, err := s.samplesStorage.ListDailySamples(ctx, profileID, storage.SampleKindSleep,
		addDays(date, -(rhythmWindowDays-1)), date)
	if err != nil {
		return nil, err
	}

	var samples []sleep.SleepSample
	for _, row := range rows {
		var sample sleep.SleepSample
		if err := json.Unmarshal(row.Payload, &sample); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	w, err := rhythm.NewWindow(samples)
	if errors.Is(err, rhythm.ErrEmptyWindow) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) error {
	profile, err := s.profileStorage.GetProfile(ctx, profileID)
	if err != nil {
		return ErrProfileNotFound
	}

	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" && profile.OwnerUserID != userID {
		return ErrProfileNotFound
	}

	return nil
}

func toStatSamples(values []DatedValue) []statkit.Sample {
	var out []statkit.Sample
	for _, v := range values {
		day, err := time.Parse("2006-01-02", v.Date)
		if err != nil {
			continue
		}
		out = append(out, statkit.Sample{Date: day, Value: v.Value})
	}
	return out
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// addDays сдвигает дату YYYY-MM-DD на n дней.
func addDays(date string, n int) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return day.AddDate(0, 0, n).Format("2006-01-02")
}
