package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	profileID  string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Energy Hub E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")
	profileID = getEnv("SMOKE_PROFILE_ID", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Printf("Profile ID: %s\n", maskString(profileID))
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Profile ID", testGetProfileID},
		{"Sync Samples", testSyncSamples},
		{"Get Daily Scores", testGetDailyScores},
		{"Morning Battery", testMorningBattery},
		{"Current Battery", testCurrentBattery},
		{"Daily Advice", testDailyAdvice},
		{"Create Report (CSV)", testCreateReportCSV},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testGetProfileID() error {
	// If profile ID already set via env, skip
	if profileID != "" {
		return nil
	}

	req, err := http.NewRequest("GET", apiBase+"/v1/profiles", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Profiles []struct {
			ID string `json:"id"`
		} `json:"profiles"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Profiles) == 0 {
		return fmt.Errorf("no profiles found")
	}

	profileID = result.Profiles[0].ID
	return nil
}

func testSyncSamples() error {
	deep := 80.0
	rem := 95.0
	payload := map[string]interface{}{
		"profile_id": profileID,
		"sleep": []map[string]interface{}{
			{
				"date":              testDate,
				"bedtime":           "23:10",
				"wake_time":         "07:00",
				"total_hours":       7.4,
				"time_in_bed_hours": 7.8,
				"deep_minutes":      deep,
				"rem_minutes":       rem,
				"efficiency":        0.93,
			},
		},
		"hrv": []map[string]interface{}{
			{
				"date":           testDate,
				"current_ms":     64,
				"resting_hr_bpm": 57,
			},
		},
		"activity": []map[string]interface{}{
			{
				"date":                  testDate,
				"steps":                 8500,
				"active_minutes":        35,
				"longest_sedentary_min": 55,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/sync/samples", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testGetDailyScores() error {
	url := fmt.Sprintf("%s/v1/scores/daily?profile_id=%s&date=%s", apiBase, profileID, testDate)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Sleep *struct {
			Score int `json:"score"`
		} `json:"sleep"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.Sleep == nil {
		return fmt.Errorf("sleep block missing after sync")
	}

	return nil
}

func testMorningBattery() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"date":       testDate,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/battery/morning", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		MorningCharge float64 `json:"morning_charge"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.MorningCharge <= 0 {
		return fmt.Errorf("morning charge is %.1f", result.MorningCharge)
	}

	return nil
}

func testCurrentBattery() error {
	url := fmt.Sprintf("%s/v1/battery/current?profile_id=%s", apiBase, profileID)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.State == "" {
		return fmt.Errorf("battery state is empty")
	}

	return nil
}

func testDailyAdvice() error {
	url := fmt.Sprintf("%s/v1/advice/daily?profile_id=%s&date=%s", apiBase, profileID, testDate)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AdviceText string `json:"advice_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.AdviceText == "" {
		return fmt.Errorf("advice text is empty")
	}

	return nil
}

func testCreateReportCSV() error {
	fromDate := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	toDate := testDate

	payload := map[string]interface{}{
		"profile_id": profileID,
		"format":     "csv",
		"from":       fromDate,
		"to":         toDate,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/reports", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.SizeBytes < 10 {
		return fmt.Errorf("report size is %d bytes (too small)", result.SizeBytes)
	}

	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	url := fmt.Sprintf("%s/v1/reports?profile_id=%s", apiBase, profileID)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Reports) == 0 {
		return fmt.Errorf("no reports found")
	}

	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	url := fmt.Sprintf("%s/v1/reports/%s/download", apiBase, reportID)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	// Don't follow redirects automatically - we need to check redirect behavior
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Accept 200 (direct serve) or 302 (redirect)
	if resp.StatusCode == http.StatusOK {
		// Direct serve (local mode)
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if len(data) < 10 {
			return fmt.Errorf("report too small: %d bytes", len(data))
		}
		return nil
	}

	if resp.StatusCode == http.StatusFound {
		// Redirect (S3 mode)
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}

		// Follow redirect
		getReq, err := http.NewRequest("GET", location, nil)
		if err != nil {
			return fmt.Errorf("failed to create redirect request: %w", err)
		}

		getResp, err := client.Do(getReq)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}

		data, err := io.ReadAll(getResp.Body)
		if err != nil {
			return fmt.Errorf("failed to read redirected body: %w", err)
		}
		if len(data) < 10 {
			return fmt.Errorf("report too small: %d bytes", len(data))
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}

	url := fmt.Sprintf("%s/v1/reports/%s", apiBase, reportID)
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Helper functions

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
