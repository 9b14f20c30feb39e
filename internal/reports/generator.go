package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/energy-hub/internal/storage"
)

// Generator generates PDF/CSV energy reports
type Generator struct {
	scoresStorage  storage.ScoresStorage
	batteryStorage storage.BatteryStorage
	profileStorage ProfileStorage
}

// NewGenerator creates a new report generator
func NewGenerator(scoresStorage storage.ScoresStorage, batteryStorage storage.BatteryStorage, profileStorage ProfileStorage) *Generator {
	return &Generator{
		scoresStorage:  scoresStorage,
		batteryStorage: batteryStorage,
		profileStorage: profileStorage,
	}
}

// dayRow — одна строка отчёта: счета дня плюс утренний заряд, если был.
type dayRow struct {
	Date          string
	SleepScore    *int
	HRVScore      *int
	ActivityScore *int
	RhythmScore   *int
	MorningCharge *float64
	EnvFactor     *float64
}

// GenerateReport generates a report and returns the data
func (g *Generator) GenerateReport(ctx context.Context, req CreateReportRequest) ([]byte, error) {
	_, err := g.profileStorage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found")
	}

	rows, err := g.collectRows(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

func (g *Generator) collectRows(ctx context.Context, req CreateReportRequest) ([]dayRow, error) {
	scoreRows, err := g.scoresStorage.ListDailyScores(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily scores: %w", err)
	}

	batteryRows, err := g.batteryStorage.ListBatteryDays(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch battery days: %w", err)
	}

	batteryByDate := make(map[string]storage.BatteryDayRow, len(batteryRows))
	for _, b := range batteryRows {
		batteryByDate[b.Date] = b
	}

	rows := make([]dayRow, 0, len(scoreRows))
	for _, sr := range scoreRows {
		row := dayRow{Date: sr.Date}

		// Какие блоки реально считались, видно только из payload:
		// нулевой int в колонке неотличим от отсутствия образца.
		var stored struct {
			Sleep    *struct{} `json:"sleep"`
			HRV      *struct{} `json:"hrv"`
			Activity *struct{} `json:"activity"`
			Rhythm   *struct{} `json:"rhythm"`
		}
		if err := json.Unmarshal(sr.Payload, &stored); err != nil {
			continue
		}

		if stored.Sleep != nil {
			v := sr.SleepScore
			row.SleepScore = &v
		}
		if stored.HRV != nil {
			v := sr.HRVScore
			row.HRVScore = &v
		}
		if stored.Activity != nil {
			v := sr.ActivityScore
			row.ActivityScore = &v
		}
		if stored.Rhythm != nil {
			v := sr.RhythmScore
			row.RhythmScore = &v
		}

		if b, ok := batteryByDate[sr.Date]; ok {
			charge := b.MorningCharge
			factor := b.EnvFactor
			row.MorningCharge = &charge
			row.EnvFactor = &factor
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// generateCSV generates a CSV report
func (g *Generator) generateCSV(rows []dayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "sleep_score", "hrv_score", "activity_score", "rhythm_score", "morning_charge", "env_factor"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			intCell(row.SleepScore),
			intCell(row.HRVScore),
			intCell(row.ActivityScore),
			intCell(row.RhythmScore),
			floatCell(row.MorningCharge, 1),
			floatCell(row.EnvFactor, 2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF generates a PDF report using core fonts
func (g *Generator) generatePDF(req CreateReportRequest, rows []dayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	fontName := "Helvetica"

	pdf.AddPage()

	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, "Energy Report")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", req.From, req.To))
	pdf.Ln(12)

	summary := calculateSummary(rows)

	pdf.SetFont(fontName, "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days with data: %d", len(rows)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average sleep score: %s", formatAvg(summary.AvgSleep)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average HRV score: %s", formatAvg(summary.AvgHRV)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average activity score: %s", formatAvg(summary.AvgActivity)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average rhythm score: %s", formatAvg(summary.AvgRhythm)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average morning charge: %s", formatAvg(summary.AvgCharge)))
	pdf.Ln(12)

	pdf.SetFont(fontName, "B", 14)
	pdf.Cell(0, 8, "Daily breakdown")
	pdf.Ln(8)

	drawDaysTable(pdf, rows, fontName)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary holds calculated summary statistics
type Summary struct {
	AvgSleep    *float64
	AvgHRV      *float64
	AvgActivity *float64
	AvgRhythm   *float64
	AvgCharge   *float64
}

func calculateSummary(rows []dayRow) Summary {
	var sleepSum, hrvSum, actSum, rhythmSum, chargeSum float64
	var sleepN, hrvN, actN, rhythmN, chargeN int

	for _, row := range rows {
		if row.SleepScore != nil {
			sleepSum += float64(*row.SleepScore)
			sleepN++
		}
		if row.HRVScore != nil {
			hrvSum += float64(*row.HRVScore)
			hrvN++
		}
		if row.ActivityScore != nil {
			actSum += float64(*row.ActivityScore)
			actN++
		}
		if row.RhythmScore != nil {
			rhythmSum += float64(*row.RhythmScore)
			rhythmN++
		}
		if row.MorningCharge != nil {
			chargeSum += *row.MorningCharge
			chargeN++
		}
	}

	return Summary{
		AvgSleep:    avgOrNil(sleepSum, sleepN),
		AvgHRV:      avgOrNil(hrvSum, hrvN),
		AvgActivity: avgOrNil(actSum, actN),
		AvgRhythm:   avgOrNil(rhythmSum, rhythmN),
		AvgCharge:   avgOrNil(chargeSum, chargeN),
	}
}

// drawDaysTable draws the per-day table, limited to the last 14 days
func drawDaysTable(pdf *gofpdf.Fpdf, rows []dayRow, fontName string) {
	limit := 14
	recent := rows
	if len(rows) > limit {
		recent = rows[len(rows)-limit:]
	}

	pdf.SetFont(fontName, "", 8)

	pdf.CellFormat(26, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Sleep", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "HRV", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Activity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Rhythm", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Charge", "1", 1, "C", false, 0, "")

	for _, row := range recent {
		pdf.CellFormat(26, 6, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, intCell(row.SleepScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, intCell(row.HRVScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, intCell(row.ActivityScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, intCell(row.RhythmScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 6, floatCell(row.MorningCharge, 0), "1", 1, "C", false, 0, "")
	}
}

// Helper functions

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func formatAvg(v *float64) string {
	if v == nil {
		return "no data"
	}
	return fmt.Sprintf("%.1f", *v)
}

func avgOrNil(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// ProfileStorage interface for generator
type ProfileStorage interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}
