package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/model"
)

// ConsultationStats summarizes the consultation request list.
type ConsultationStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByDiseaseType map[string]int `json:"by_disease_type"`
	NewLast7Days  int            `json:"new_last_7_days"`
}

// ConsultationList is the consultation request list screen.
type ConsultationList = ListResult[model.Consultation, ConsultationStats]

// ConsultationListSpec searches names, phone, disease type and comments;
// categories are status and disease_type.
var ConsultationListSpec = listview.Spec[model.Consultation]{
	Text: []listview.Field[model.Consultation]{
		func(c model.Consultation) string { return c.FirstName },
		func(c model.Consultation) string { return c.LastName },
		func(c model.Consultation) string { return c.Phone },
		func(c model.Consultation) string { return c.DiseaseType },
		func(c model.Consultation) string { return deref(c.Comments) },
	},
	Categories: map[string]listview.Field[model.Consultation]{
		"status":       func(c model.Consultation) string { return string(c.Status) },
		"disease_type": func(c model.Consultation) string { return c.DiseaseType },
	},
}

// ConsultationStatsOf computes request statistics relative to now.
// Every status key is present.
func ConsultationStatsOf(rows []model.Consultation, now time.Time) ConsultationStats {
	statuses := make([]string, len(model.AllConsultationStatuses))
	for i, st := range model.AllConsultationStatuses {
		statuses[i] = string(st)
	}
	return ConsultationStats{
		Total:         len(rows),
		ByStatus:      withKeys(listview.CountBy(rows, ConsultationListSpec.Categories["status"]), statuses...),
		ByDiseaseType: listview.CountBy(rows, ConsultationListSpec.Categories["disease_type"]),
		NewLast7Days: listview.CreatedSince(rows, func(c model.Consultation) time.Time { return c.CreatedAt },
			now.Add(-listview.RecentWindow)),
	}
}

// ConsultationService is the consultation request list controller.
type ConsultationService struct {
	store    gateway.ConsultationStore
	fallback gateway.ConsultationStore
	recorder activity.Recorder
	log      zerolog.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewConsultationService creates a new ConsultationService. fallback may be nil.
func NewConsultationService(store, fallback gateway.ConsultationStore, recorder activity.Recorder, timeout time.Duration, log zerolog.Logger) *ConsultationService {
	return &ConsultationService{
		store:    store,
		fallback: fallback,
		recorder: recorder,
		log:      log.With().Str("component", "consultation_service").Logger(),
		timeout:  timeout,
		now:      time.Now,
	}
}

// load reads every request, degrading to demo data when the store is unreachable.
func (s *ConsultationService) load(ctx context.Context) ([]model.Consultation, error) {
	var fb func(context.Context) ([]model.Consultation, error)
	if s.fallback != nil {
		fb = s.fallback.List
	}
	rows, _, err := gateway.Read(ctx, s.log, "consultations.list", s.store.List, fb)
	return rows, err
}

func (s *ConsultationService) binding() lister[model.Consultation, ConsultationStats] {
	now := s.now()
	return lister[model.Consultation, ConsultationStats]{
		load:    s.load,
		spec:    ConsultationListSpec,
		stats:   func(rows []model.Consultation) ConsultationStats { return ConsultationStatsOf(rows, now) },
		timeout: s.timeout,
	}
}

// List returns the requests matching q, newest first.
func (s *ConsultationService) List(ctx context.Context, q listview.Query) (*ConsultationList, error) {
	return s.binding().list(ctx, q)
}

// UpdateStatus sets the status of request id. Any status may replace any other.
func (s *ConsultationService) UpdateStatus(ctx context.Context, actor *model.Admin, id string, status model.ConsultationStatus, q listview.Query) (*ConsultationList, error) {
	return s.binding().mutate(ctx, id, "Status updated", q, func(ctx context.Context) error {
		if !status.Valid() {
			return ErrInvalidStatus
		}
		if err := s.store.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		s.recorder.Record(ctx, model.Activity{
			AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionConsultationStatus,
			TargetID: id, Detail: string(status),
		})
		return nil
	})
}

// Delete hard-deletes request id.
func (s *ConsultationService) Delete(ctx context.Context, actor *model.Admin, id string, q listview.Query) (*ConsultationList, error) {
	return s.binding().mutate(ctx, id, "Request deleted", q, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete consultation: %w", err)
		}
		s.recorder.Record(ctx, model.Activity{
			AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionConsultationDelete, TargetID: id,
		})
		return nil
	})
}

// Submit stores a new request from the public intake form. New requests are pending.
func (s *ConsultationService) Submit(ctx context.Context, req model.SubmitConsultationRequest) (*model.Consultation, error) {
	c := &model.Consultation{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Age:         req.Age,
		DiseaseType: req.DiseaseType,
		Phone:       req.Phone,
		Comments:    req.Comments,
		Status:      model.StatusPending,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("submit consultation: %w", err)
	}
	s.log.Info().Str("consultation_id", c.ID).Str("disease_type", c.DiseaseType).Msg("Consultation request submitted")
	return c, nil
}

var exportHeader = []any{"ID", "First name", "Last name", "Age", "Disease type", "Phone", "Comments", "Status", "Created at", "Updated at"}

// Export renders the requests matching q as an XLSX workbook.
func (s *ConsultationService) Export(ctx context.Context, q listview.Query) ([]byte, error) {
	res, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Consultations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, c := range res.Items {
		row := []any{
			c.ID, c.FirstName, c.LastName, c.Age, c.DiseaseType, c.Phone,
			deref(c.Comments), string(c.Status),
			c.CreatedAt.UTC().Format(time.RFC3339), c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "J", 18); err != nil {
		return nil, fmt.Errorf("set widths: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
