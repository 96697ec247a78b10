package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/model"
)

// recentActivityLimit is how many activity entries the dashboard shows.
const recentActivityLimit = 10

// DashboardData consolidates the statistics of every list screen.
type DashboardData struct {
	Users          *UserStats         `json:"users"`
	Admins         *AdminStats        `json:"admins"`
	Consultations  *ConsultationStats `json:"consultations"`
	RecentActivity []model.Activity   `json:"recent_activity"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	users         *UserService
	admins        *AdminService
	consultations *ConsultationService
	activity      *ActivityService
	log           zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(users *UserService, admins *AdminService, consultations *ConsultationService, activity *ActivityService, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		users:         users,
		admins:        admins,
		consultations: consultations,
		activity:      activity,
		log:           log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetDashboardData loads every section concurrently. A failed section is left
// empty and reported as a warning.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		data = &DashboardData{RecentActivity: []model.Activity{}}
	)
	warn := func(section string, err error) {
		s.log.Warn().Err(err).Str("section", section).Msg("Dashboard section unavailable")
		mu.Lock()
		data.Warnings = append(data.Warnings, section+" could not be loaded")
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		res, err := s.users.List(ctx, listview.Query{})
		if err != nil {
			warn("users", err)
			return
		}
		mu.Lock()
		data.Users = &res.Stats
		data.Warnings = append(data.Warnings, res.Warnings...)
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		res, err := s.admins.List(ctx, listview.Query{})
		if err != nil {
			warn("admins", err)
			return
		}
		mu.Lock()
		data.Admins = &res.Stats
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		res, err := s.consultations.List(ctx, listview.Query{})
		if err != nil {
			warn("consultations", err)
			return
		}
		mu.Lock()
		data.Consultations = &res.Stats
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		entries, err := s.activity.Recent(ctx, recentActivityLimit)
		if err != nil {
			warn("activity", err)
			return
		}
		mu.Lock()
		data.RecentActivity = entries
		mu.Unlock()
	}()
	wg.Wait()

	return data, nil
}
