package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/gateway/demo"
	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/password"
)

var testActor = &model.Admin{ID: "actor-1", Login: "admin", Role: model.RoleAdmin, Active: true}

func newConsultationService(t *testing.T, store, fallback gateway.ConsultationStore) (*ConsultationService, *demo.Dataset) {
	t.Helper()
	ds := demo.New(password.NewHasher(bcrypt.MinCost), nil)
	if store == nil {
		store = ds.Consultations
	}
	svc := NewConsultationService(store, fallback, activity.NewStoreRecorder(ds.Activity, logger.Nop()), time.Second, logger.Nop())
	return svc, ds
}

func findStatus(t *testing.T, items []model.Consultation, status model.ConsultationStatus) model.Consultation {
	t.Helper()
	for _, c := range items {
		if c.Status == status {
			return c
		}
	}
	t.Fatalf("no consultation with status %s", status)
	return model.Consultation{}
}

func TestConsultationListStats(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)

	res, err := svc.List(context.Background(), listview.Query{})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Matched)
	assert.Equal(t, map[string]int{"pending": 2, "contacted": 1, "completed": 1, "cancelled": 1}, res.Stats.ByStatus)
	assert.Equal(t, 2, res.Stats.ByDiseaseType["cardiology"])
	assert.Equal(t, 3, res.Stats.NewLast7Days)

	for i := 1; i < len(res.Items); i++ {
		assert.False(t, res.Items[i].CreatedAt.After(res.Items[i-1].CreatedAt), "newest first")
	}
}

func TestConsultationStatusKeysAlwaysPresent(t *testing.T) {
	stats := ConsultationStatsOf(nil, time.Now())

	assert.Len(t, stats.ByStatus, len(model.AllConsultationStatuses))
	for _, st := range model.AllConsultationStatuses {
		assert.Zero(t, stats.ByStatus[string(st)])
	}
}

func TestConsultationFilter(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)
	ctx := context.Background()

	res, err := svc.List(ctx, listview.Query{Text: "BIOPSY"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Marat", res.Items[0].FirstName)
	assert.Equal(t, 5, res.Total, "stats cover the unfiltered list")

	res, err = svc.List(ctx, listview.Query{Exact: map[string]string{"status": "pending", "disease_type": "cardiology"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Aliya", res.Items[0].FirstName)

	res, err = svc.List(ctx, listview.Query{Exact: map[string]string{"status": listview.All}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)
}

func TestUpdateStatusMovesStats(t *testing.T) {
	svc, ds := newConsultationService(t, nil, nil)
	ctx := context.Background()

	before, err := svc.List(ctx, listview.Query{})
	require.NoError(t, err)
	target := findStatus(t, before.Items, model.StatusPending)

	after, err := svc.UpdateStatus(ctx, testActor, target.ID, model.StatusContacted, listview.Query{})
	require.NoError(t, err)

	assert.Equal(t, before.Stats.ByStatus["pending"]-1, after.Stats.ByStatus["pending"])
	assert.Equal(t, before.Stats.ByStatus["contacted"]+1, after.Stats.ByStatus["contacted"])
	require.NotNil(t, after.Banner)
	assert.Equal(t, listview.BannerSuccess, after.Banner.Kind)

	entries, err := ds.Activity.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionConsultationStatus, entries[0].Action)
	assert.Equal(t, "contacted", entries[0].Detail)
}

func TestAnyStatusTransitionIsAllowed(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)
	ctx := context.Background()

	res, err := svc.List(ctx, listview.Query{})
	require.NoError(t, err)
	done := findStatus(t, res.Items, model.StatusCompleted)

	res, err = svc.UpdateStatus(ctx, testActor, done.ID, model.StatusPending, listview.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stats.ByStatus["pending"])
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)
	ctx := context.Background()

	res, err := svc.List(ctx, listview.Query{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testActor, res.Items[0].ID, "archived", listview.Query{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestDeleteThenReloadOmitsRecord(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)
	ctx := context.Background()

	res, err := svc.List(ctx, listview.Query{})
	require.NoError(t, err)
	id := res.Items[2].ID

	res, err = svc.Delete(ctx, testActor, id, listview.Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	for _, c := range res.Items {
		assert.NotEqual(t, id, c.ID)
	}

	_, err = svc.Delete(ctx, testActor, id, listview.Query{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

type downConsultations struct{}

func (downConsultations) List(context.Context) ([]model.Consultation, error) {
	return nil, unavailable("consultations.list")
}
func (downConsultations) Create(context.Context, *model.Consultation) error {
	return unavailable("consultations.create")
}
func (downConsultations) UpdateStatus(context.Context, string, model.ConsultationStatus) error {
	return unavailable("consultations.update_status")
}
func (downConsultations) Delete(context.Context, string) error {
	return unavailable("consultations.delete")
}

func TestConsultationListFallsBack(t *testing.T) {
	ds := demo.New(password.NewHasher(bcrypt.MinCost), nil)
	svc, _ := newConsultationService(t, downConsultations{}, ds.Consultations)

	res, err := svc.List(context.Background(), listview.Query{})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)

	_, err = svc.UpdateStatus(context.Background(), testActor, res.Items[0].ID, model.StatusCompleted, listview.Query{})
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable), "writes never fall back")
}

func TestConsultationListWithoutFallbackFails(t *testing.T) {
	svc, _ := newConsultationService(t, downConsultations{}, nil)

	_, err := svc.List(context.Background(), listview.Query{})
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)
	ctx := context.Background()

	c, err := svc.Submit(ctx, model.SubmitConsultationRequest{
		FirstName: "Asel", LastName: "Omarova", Age: 29, DiseaseType: "dermatology", Phone: "+77019998877",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.StatusPending, c.Status)

	res, err := svc.List(ctx, listview.Query{})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, c.ID, res.Items[0].ID)
	assert.Equal(t, 3, res.Stats.ByStatus["pending"])
}

func TestExportWritesFilteredRows(t *testing.T) {
	svc, _ := newConsultationService(t, nil, nil)

	data, err := svc.Export(context.Background(), listview.Query{Exact: map[string]string{"status": "pending"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Consultations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "First name", rows[0][1])
	assert.Equal(t, "pending", rows[1][7])
	assert.Equal(t, "pending", rows[2][7])
}
