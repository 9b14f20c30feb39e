package advice

import (
	"context"
	"fmt"
	"strings"
)

type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Advise собирает детерминированный совет по снимку дня.
// Используется в демо-режиме и в тестах; не заменяет генеративный режим.
func (p *MockProvider) Advise(ctx context.Context, req AdviceRequest) (AdviceResponse, error) {
	_ = ctx

	snap := req.Snapshot
	highlights := make([]string, 0, 4)

	if snap.BatteryLevel != nil {
		switch {
		case *snap.BatteryLevel < 20:
			highlights = append(highlights, "Батарея почти разряжена: перенесите нагрузку и запланируйте ранний отбой.")
		case *snap.BatteryLevel < 40:
			highlights = append(highlights, "Заряд низкий: выбирайте лёгкую активность и делайте паузы.")
		case *snap.BatteryLevel >= 80:
			highlights = append(highlights, "Заряд высокий: хороший день для тренировки или сложных задач.")
		}
	}

	if snap.SleepScore != nil && *snap.SleepScore < 60 {
		highlights = append(highlights, "Сон ниже нормы: сегодня стоит лечь на 30–60 минут раньше.")
	}
	if snap.HRVScore != nil && *snap.HRVScore < 60 {
		highlights = append(highlights, "HRV снижен: организм восстанавливается, избегайте интенсивных нагрузок.")
	}
	if snap.ActivityScore != nil && *snap.ActivityScore < 60 {
		highlights = append(highlights, "Активность низкая: добавьте прогулку и прерывайте долгое сидение.")
	}
	if snap.StabilityStatus == "unstable" {
		highlights = append(highlights, "Режим сна нестабилен: постарайтесь ложиться в одно и то же время.")
	}

	if len(highlights) == 0 {
		highlights = append(highlights, "Все метрики в порядке: держите текущий ритм.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mock-совет на %s. ", snap.Date))
	if snap.BatteryLevel != nil {
		sb.WriteString(fmt.Sprintf("Заряд %.0f%% (%s). ", *snap.BatteryLevel, snap.BatteryState))
	}
	sb.WriteString(strings.Join(highlights, " "))
	sb.WriteString(" Это демо-режим, рекомендации не являются медицинским заключением.")

	return AdviceResponse{
		AdviceText: sb.String(),
		Highlights: highlights,
	}, nil
}
