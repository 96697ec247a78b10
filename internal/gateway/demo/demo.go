// Package demo holds the in-memory gateway used when no database is configured
// and as the read fallback when the database is unreachable. A Dataset is built
// once at startup and shared by every service.
package demo

import (
	"time"

	"github.com/google/uuid"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/password"
)

// Credential is a built-in demo login.
type Credential struct {
	Login    string
	Password string
	FullName string
	Role     model.AdminRole
}

// Credentials are the seeded demo identities. All of them are active.
var Credentials = []Credential{
	{Login: "admin", Password: "admin123", FullName: "Demo Administrator", Role: model.RoleAdmin},
	{Login: "moderator", Password: "moderator123", FullName: "Demo Moderator", Role: model.RoleModerator},
}

// Dataset groups the demo stores.
type Dataset struct {
	Admins        *AdminStore
	Profiles      *ProfileStore
	Consultations *ConsultationStore
	Directory     *Directory
	Activity      *ActivityStore
}

// New seeds a Dataset. now may be nil, in which case time.Now is used.
func New(h *password.Hasher, now func() time.Time) *Dataset {
	if now == nil {
		now = time.Now
	}
	t := now()

	admins := newAdminStore(now)
	for i, c := range Credentials {
		created := t.Add(-time.Duration(len(Credentials)-i) * 24 * time.Hour)
		admins.seed(model.Admin{
			ID:        uuid.NewString(),
			Login:     c.Login,
			FullName:  c.FullName,
			Role:      c.Role,
			Active:    true,
			CreatedAt: created,
			UpdatedAt: created,
		}, h.MustHash(c.Password))
	}

	accounts, profiles := seedUsers(t)

	return &Dataset{
		Admins:        admins,
		Profiles:      &ProfileStore{rows: profiles},
		Consultations: &ConsultationStore{rows: seedConsultations(t), now: now},
		Directory:     &Directory{users: accounts},
		Activity:      &ActivityStore{now: now},
	}
}

func strPtr(s string) *string { return &s }

func seedUsers(t time.Time) ([]model.UserAccount, []model.UserProfile) {
	day := 24 * time.Hour
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()}

	accounts := []model.UserAccount{
		{
			ID: ids[0], Email: "aigerim.sadykova@example.com", Phone: "+77010000001",
			Provider: "email", CreatedAt: t.Add(-40 * day),
			Metadata: map[string]any{"full_name": "Aigerim S."},
		},
		{
			ID: ids[1], Email: "daniyar.k@example.com", Provider: "google",
			CreatedAt: t.Add(-3 * day),
			Metadata:  map[string]any{"full_name": "Daniyar Karimov", "role": "doctor"},
		},
		{
			ID: ids[2], Email: "new.patient@example.com", Provider: "email",
			CreatedAt: t.Add(-1 * day),
		},
	}
	profiles := []model.UserProfile{
		{
			ID: ids[0], FullName: strPtr("Aigerim Sadykova"), Role: strPtr("user"),
			Status: strPtr("active"), CreatedAt: t.Add(-40 * day), UpdatedAt: t.Add(-10 * day),
		},
		{
			ID: ids[1], Phone: strPtr("+77020000002"), Status: strPtr("blocked"),
			CreatedAt: t.Add(-3 * day), UpdatedAt: t.Add(-2 * day),
		},
		{
			// Profile row left behind by an account removed on the identity side.
			ID: ids[3], FullName: strPtr("Orphaned Profile"), CreatedAt: t.Add(-90 * day), UpdatedAt: t.Add(-90 * day),
		},
	}
	return accounts, profiles
}

func seedConsultations(t time.Time) []model.Consultation {
	day := 24 * time.Hour
	rows := []model.Consultation{
		{FirstName: "Aliya", LastName: "Nurlanova", Age: 34, DiseaseType: "cardiology", Phone: "+77011112233", Status: model.StatusPending, CreatedAt: t.Add(-2 * time.Hour)},
		{FirstName: "Marat", LastName: "Ospanov", Age: 58, DiseaseType: "oncology", Phone: "+77012223344", Comments: strPtr("Second opinion after biopsy"), Status: model.StatusPending, CreatedAt: t.Add(-1 * day)},
		{FirstName: "Elena", LastName: "Petrova", Age: 41, DiseaseType: "neurology", Phone: "+77013334455", Status: model.StatusContacted, CreatedAt: t.Add(-4 * day)},
		{FirstName: "Timur", LastName: "Akhmetov", Age: 27, DiseaseType: "cardiology", Phone: "+77014445566", Status: model.StatusCompleted, CreatedAt: t.Add(-12 * day)},
		{FirstName: "Saule", LastName: "Bekova", Age: 63, DiseaseType: "orthopedics", Phone: "+77015556677", Comments: strPtr("Prefers a call after 18:00"), Status: model.StatusCancelled, CreatedAt: t.Add(-20 * day)},
	}
	for i := range rows {
		rows[i].ID = uuid.NewString()
		rows[i].UpdatedAt = rows[i].CreatedAt
	}
	return rows
}
