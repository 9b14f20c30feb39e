package reports

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/energy-hub/internal/blob"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
)

// Errors
var (
	ErrInvalidFormat    = fmt.Errorf("invalid format")
	ErrInvalidDate      = fmt.Errorf("invalid date format")
	ErrInvalidDateRange = fmt.Errorf("from date must be before to date")
	ErrRangeTooLarge    = fmt.Errorf("date range too large")
	ErrProfileNotFound  = fmt.Errorf("profile not found")
	ErrReportNotFound   = fmt.Errorf("report not found")
)

// Service handles reports business logic
type Service struct {
	reportsStorage storage.ReportsStorage
	profileStorage ProfileStorage
	generator      *Generator
	blobStore      blob.Store
	maxRangeDays   int
	presignTTL     int
	localMode      bool // true if no S3 configured
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	scoresStorage storage.ScoresStorage,
	batteryStorage storage.BatteryStorage,
	profileStorage ProfileStorage,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
) *Service {
	return &Service{
		reportsStorage: reportsStorage,
		profileStorage: profileStorage,
		generator:      NewGenerator(scoresStorage, batteryStorage, profileStorage),
		blobStore:      blobStore,
		maxRangeDays:   maxRangeDays,
		presignTTL:     presignTTL,
		localMode:      blobStore == nil,
	}
}

// CreateReport generates a report over the requested range and stores it
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}

	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	daysDiff := int(toDate.Sub(fromDate).Hours() / 24)
	if daysDiff > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	if err = s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, ErrProfileNotFound
	}

	data, err := s.generator.GenerateReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		ProfileID: req.ProfileID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			req.ProfileID.String(),
			req.From,
			req.To,
			uuid.New().String(),
			req.Format,
		)

		if _, err = s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return s.toReport(report), nil
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return nil, ErrReportNotFound
	}

	return s.toReport(meta), nil
}

// ListReports lists reports for a profile
func (s *Service) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]Report, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, ErrProfileNotFound
	}

	metaList, err := s.reportsStorage.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i, meta := range metaList {
		reports[i] = *s.toReport(&meta)
	}

	return reports, nil
}

// DeleteReport deletes a report and its stored object
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Метаданные важнее объекта: удаление продолжается.
			log.Printf("WARNING: failed to delete S3 object: %v", err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return "", ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return "", ErrReportNotFound
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData retrieves the raw report data (for local mode download)
func (s *Service) GetReportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, "", ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return nil, "", ErrReportNotFound
	}

	contentType := contentTypeFor(meta.Format)

	if s.localMode {
		return meta.Data, contentType, nil
	}

	if meta.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report object: %w", err)
	}

	return data, contentType, nil
}

// toReport converts ReportMeta to Report model
func (s *Service) toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
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
