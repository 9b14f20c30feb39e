package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
)

func setupTestService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()

	store := memory.New()
	profile := &storage.Profile{OwnerUserID: "default", Name: "Test", Mode: "standard"}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	for i, date := range []string{"2026-08-24", "2026-08-25", "2026-08-26"} {
		payload := []byte(`{"sleep":{"score":1},"hrv":{"score":1},"activity":{"score":1},"rhythm":{"score":1}}`)
		row := &storage.DailyScoreRow{
			ProfileID:     profile.ID,
			Date:          date,
			SleepScore:    80 + i,
			HRVScore:      70 + i,
			ActivityScore: 60 + i,
			RhythmScore:   90 + i,
			Payload:       payload,
		}
		if err := store.UpsertDailyScores(context.Background(), row); err != nil {
			t.Fatalf("seed scores: %v", err)
		}

		battery := &storage.BatteryDayRow{
			ProfileID:     profile.ID,
			Date:          date,
			MorningCharge: 75,
			DrainRate:     -4.5,
			EnvFactor:     1.0,
		}
		if err := store.UpsertBatteryDay(context.Background(), battery); err != nil {
			t.Fatalf("seed battery: %v", err)
		}
	}

	svc := NewService(store, store, store, store, nil, 90, 900)
	return svc, profile.ID
}

func TestCreateCSVReport(t *testing.T) {
	svc, profileID := setupTestService(t)

	report, err := svc.CreateReport(context.Background(), CreateReportRequest{
		ProfileID: profileID,
		From:      "2026-08-24",
		To:        "2026-08-30",
		Format:    FormatCSV,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != StatusReady || report.SizeBytes == 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	content := string(report.Data)
	if !strings.HasPrefix(content, "date,sleep_score,hrv_score,activity_score,rhythm_score,morning_charge,env_factor") {
		t.Errorf("unexpected CSV header: %s", strings.SplitN(content, "\n", 2)[0])
	}
	if !strings.Contains(content, "2026-08-25,81,71,61,91,75.0,1.00") {
		t.Errorf("expected seeded row in CSV, got:\n%s", content)
	}
}

func TestCreatePDFReport(t *testing.T) {
	svc, profileID := setupTestService(t)

	report, err := svc.CreateReport(context.Background(), CreateReportRequest{
		ProfileID: profileID,
		From:      "2026-08-24",
		To:        "2026-08-30",
		Format:    FormatPDF,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(report.Data, []byte("%PDF")) {
		t.Error("expected PDF magic bytes")
	}
}

func TestCreateReportValidation(t *testing.T) {
	svc, profileID := setupTestService(t)
	svc.maxRangeDays = 30

	cases := []struct {
		name string
		req  CreateReportRequest
		want error
	}{
		{"bad format", CreateReportRequest{ProfileID: profileID, From: "2026-08-01", To: "2026-08-07", Format: "xlsx"}, ErrInvalidFormat},
		{"bad date", CreateReportRequest{ProfileID: profileID, From: "01.08.2026", To: "2026-08-07", Format: FormatCSV}, ErrInvalidDate},
		{"inverted range", CreateReportRequest{ProfileID: profileID, From: "2026-08-07", To: "2026-08-01", Format: FormatCSV}, ErrInvalidDateRange},
		{"range too large", CreateReportRequest{ProfileID: profileID, From: "2026-01-01", To: "2026-08-01", Format: FormatCSV}, ErrRangeTooLarge},
		{"unknown profile", CreateReportRequest{ProfileID: uuid.New(), From: "2026-08-01", To: "2026-08-07", Format: FormatCSV}, ErrProfileNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateReport(context.Background(), tc.req); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHandleCreateAndDownload(t *testing.T) {
	svc, profileID := setupTestService(t)
	h := NewHandlers(svc)

	body, _ := json.Marshal(CreateReportRequest{
		ProfileID: profileID,
		From:      "2026-08-24",
		To:        "2026-08-30",
		Format:    FormatCSV,
	})
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, httptest.NewRequest(http.MethodPost, "/v1/reports", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto ReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(dto.DownloadURL, "/v1/reports/"+dto.ID.String()+"/download") {
		t.Errorf("unexpected download URL: %s", dto.DownloadURL)
	}

	// Скачивание в local-режиме отдаёт файл напрямую.
	req := httptest.NewRequest(http.MethodGet, dto.DownloadURL, nil)
	req.SetPathValue("id", dto.ID.String())
	rec = httptest.NewRecorder()
	h.HandleDownload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,") {
		t.Error("expected CSV body")
	}
}

func TestHandleListAndDelete(t *testing.T) {
	svc, profileID := setupTestService(t)
	h := NewHandlers(svc)

	report, err := svc.CreateReport(context.Background(), CreateReportRequest{
		ProfileID: profileID,
		From:      "2026-08-24",
		To:        "2026-08-30",
		Format:    FormatCSV,
	})
	if err != nil {
		t.Fatalf("create report: %v", err)
	}

	path := fmt.Sprintf("/v1/reports?profile_id=%s", profileID)
	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ReportsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].ID != report.ID {
		t.Fatalf("unexpected list: %+v", resp.Reports)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/reports/"+report.ID.String(), nil)
	req.SetPathValue("id", report.ID.String())
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := svc.GetReport(context.Background(), report.ID); err != ErrReportNotFound {
		t.Errorf("expected ErrReportNotFound after delete, got %v", err)
	}
}
