package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/services/anthropic"
)

const reportMaxTokens = 2000

// FlexFloat accepts both JSON numbers and numeric strings. Model output
// is inconsistent about quoting numbers.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt accepts both JSON numbers and numeric strings
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*i = FlexInt(v)
	return nil
}

// ReportEntry is one subject's performance in the generated report
type ReportEntry struct {
	Percentage FlexFloat `json:"foiz"`
	Score      FlexInt   `json:"ball"`
}

// ReportPayload is the structure the model is instructed to return
type ReportPayload struct {
	Report   map[string]ReportEntry `json:"Report"`
	Analysis string                 `json:"Analysis"`
}

// ReportService generates per-subject performance reports
type ReportService struct {
	db        *gorm.DB
	model     ModelClient
	contexts  *ContextService
	userLocks *keyedMutex
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, modelClient ModelClient, contexts *ContextService) *ReportService {
	return &ReportService{
		db:        db,
		model:     modelClient,
		contexts:  contexts,
		userLocks: newKeyedMutex(),
	}
}

// GenerateReport runs a one-shot model call and replaces the student's
// stored report rows with the parsed result. Generation for the same
// user is serialized; the previous report survives any failure.
func (s *ReportService) GenerateReport(ctx context.Context, userID uint) (*ReportPayload, error) {
	lockKey := fmt.Sprintf("report:%d", userID)
	s.userLocks.Lock(lockKey)
	defer s.userLocks.Unlock(lockKey)

	snapshot, err := s.contexts.BuildStudentContext(userID)
	if err != nil {
		return nil, err
	}

	contextJSON, err := snapshot.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode context: %w", err)
	}

	// Temperature 0 keeps the output format deterministic
	resp, err := s.model.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       anthropic.DefaultModel,
		MaxTokens:   reportMaxTokens,
		Temperature: 0,
		Messages: []anthropic.Message{
			{Role: "user", Content: GetReportPrompt(contextJSON)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var payload ReportPayload
	if err := json.Unmarshal([]byte(resp.Text()), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadUpstreamResponse, err)
	}
	if payload.Report == nil {
		return nil, fmt.Errorf("%w: missing Report object", ErrBadUpstreamResponse)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.StudentReport{}).Error; err != nil {
			return err
		}

		for subject, entry := range payload.Report {
			report := model.StudentReport{
				UserID:     userID,
				Subject:    subject,
				Percentage: float64(entry.Percentage),
				Grade:      int(entry.Score),
			}
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payload, nil
}
