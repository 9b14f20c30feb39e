package advice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/battery"
	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrNoData          = errors.New("no scores for the requested day")
)

// Service собирает снимок дня из хранилища и отдаёт его провайдеру советов.
type Service struct {
	profileStorage storage.Storage
	scoresStorage  storage.ScoresStorage
	batteryStorage storage.BatteryStorage
	provider       Provider
	engine         *battery.Engine

	now func() time.Time
}

func NewService(
	cfg *config.Config,
	profileStorage storage.Storage,
	scoresStorage storage.ScoresStorage,
	batteryStorage storage.BatteryStorage,
	provider Provider,
) *Service {
	return &Service{
		profileStorage: profileStorage,
		scoresStorage:  scoresStorage,
		batteryStorage: batteryStorage,
		provider:       provider,
		engine:         battery.NewEngine(cfg.Battery),
		now:            time.Now,
	}
}

// storedScores — срез сохранённого payload дневных счетов.
// Блоки опциональны, как и в самом payload.
type storedScores struct {
	Sleep     *scoreBlock     `json:"sleep"`
	HRV       *scoreBlock     `json:"hrv"`
	Activity  *scoreBlock     `json:"activity"`
	Rhythm    *scoreBlock     `json:"rhythm"`
	Stability *stabilityBlock `json:"stability"`
}

type scoreBlock struct {
	Score int `json:"score"`
}

type stabilityBlock struct {
	Status                string `json:"status"`
	ConsecutiveStableDays int    `json:"consecutive_stable_days"`
}

// DailyAdvice строит снимок метрик дня и запрашивает совет у провайдера.
// Батарея опциональна: совет возможен и до утреннего заряда.
func (s *Service) DailyAdvice(ctx context.Context, profileID uuid.UUID, date string) (*AdviceResponse, DaySnapshot, error) {
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, DaySnapshot{}, ErrInvalidDate
	}

	profile, err := s.profileStorage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, DaySnapshot{}, ErrProfileNotFound
	}
	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" && profile.OwnerUserID != userID {
		return nil, DaySnapshot{}, ErrProfileNotFound
	}

	row, err := s.scoresStorage.GetDailyScores(ctx, profileID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, DaySnapshot{}, ErrNoData
	}
	if err != nil {
		return nil, DaySnapshot{}, err
	}

	var stored storedScores
	if err := json.Unmarshal(row.Payload, &stored); err != nil {
		return nil, DaySnapshot{}, err
	}

	snap := DaySnapshot{Date: date}
	if stored.Sleep != nil {
		snap.SleepScore = &stored.Sleep.Score
	}
	if stored.HRV != nil {
		snap.HRVScore = &stored.HRV.Score
	}
	if stored.Activity != nil {
		snap.ActivityScore = &stored.Activity.Score
	}
	if stored.Rhythm != nil {
		snap.RhythmScore = &stored.Rhythm.Score
	}
	if stored.Stability != nil {
		snap.StabilityStatus = stored.Stability.Status
		snap.ConsecutiveStableDays = stored.Stability.ConsecutiveStableDays
	}

	s.attachBattery(ctx, profileID, date, &snap)

	userID, _ := userctx.GetUserID(ctx)
	resp, err := s.provider.Advise(ctx, AdviceRequest{
		UserID:    userID,
		ProfileID: profileID,
		Mode:      profile.Mode,
		Snapshot:  snap,
	})
	if err != nil {
		return nil, DaySnapshot{}, err
	}

	return &resp, snap, nil
}

// attachBattery подмешивает уровень батареи на момент чтения, если утренний
// заряд дня записан. Отсутствие записи не является ошибкой.
func (s *Service) attachBattery(ctx context.Context, profileID uuid.UUID, date string, snap *DaySnapshot) {
	row, err := s.batteryStorage.GetBatteryDay(ctx, profileID, date)
	if err != nil {
		return
	}

	b := battery.HumanBattery{
		MorningCharge: row.MorningCharge,
		DrainRate:     row.DrainRate,
		MorningAt:     row.MorningAt,
	}
	b = s.engine.Level(b, s.now())

	snap.BatteryLevel = &b.CurrentLevel
	snap.BatteryState = b.State
}
