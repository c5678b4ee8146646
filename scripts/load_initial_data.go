package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/config"
	"timeclock-backend/internal/database"
	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeds the database with demo tenants, members and a month of attendance
// events. Destructive: wipes the three tables first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}

	if err := wipe(db); err != nil {
		log.Fatal("Failed to wipe existing data: ", err)
	}

	hasher := auth.NewBcryptHasher()
	password, err := hasher.Hash("changeme123")
	if err != nil {
		log.Fatal("Failed to hash seed password: ", err)
	}

	globalAdmin := &models.Member{
		FirstName:    "Root",
		LastName:     "Admin",
		Email:        "root@timeclock.local",
		PasswordHash: password,
		Role:         models.MemberRoleGlobalAdmin,
		Enabled:      true,
	}
	if err := db.Create(globalAdmin).Error; err != nil {
		log.Fatal("Failed to create global admin: ", err)
	}

	tenantNames := []string{"Acme Logistics", "Nordwind Retail"}
	for _, name := range tenantNames {
		if err := seedTenant(db, name, password); err != nil {
			log.Fatalf("Failed to seed tenant %s: %v", name, err)
		}
	}

	log.Println("Seed data loaded")
}

func wipe(db *gorm.DB) error {
	for _, model := range []interface{}{&models.AttendanceEvent{}, &models.Member{}, &models.Tenant{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTenant(db *gorm.DB, name, password string) error {
	tenant := &models.Tenant{Name: name, Enabled: true}
	if err := db.Create(tenant).Error; err != nil {
		return err
	}

	slug := fmt.Sprintf("t%d", rand.Intn(100000))

	admin := &models.Member{
		TenantID:     &tenant.ID,
		FirstName:    "Admin",
		LastName:     name,
		Email:        fmt.Sprintf("admin-%s@timeclock.local", slug),
		PasswordHash: password,
		Role:         models.MemberRoleTenantAdmin,
		Enabled:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	var workerIDs []uuid.UUID
	for i := 1; i <= 8; i++ {
		worker := &models.Member{
			TenantID:     &tenant.ID,
			FirstName:    fmt.Sprintf("Worker%d", i),
			LastName:     name,
			Email:        fmt.Sprintf("worker%d-%s@timeclock.local", i, slug),
			PasswordHash: password,
			Role:         models.MemberRoleWorker,
			Enabled:      true,
		}
		if err := db.Create(worker).Error; err != nil {
			return err
		}
		workerIDs = append(workerIDs, worker.ID)
	}

	events := generateEvents(workerIDs, 30)
	if len(events) > 0 {
		if err := db.CreateInBatches(events, 500).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded tenant %s with %d workers and %d events", name, len(workerIDs), len(events))
	return nil
}

// generateEvents builds a plausible history: most weekdays a morning
// clock-in, a lunch break pair and an evening clock-out; occasionally an
// absence instead.
func generateEvents(workerIDs []uuid.UUID, days int) []models.AttendanceEvent {
	var events []models.AttendanceEvent
	now := time.Now()

	for _, workerID := range workerIDs {
		for d := 1; d <= days; d++ {
			day := now.AddDate(0, 0, -d)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}

			if rand.Intn(20) == 0 {
				events = append(events, event(workerID, models.EventKindAbsence, at(day, 8, 0)))
				continue
			}

			events = append(events,
				event(workerID, models.EventKindClockIn, at(day, 8, rand.Intn(30))),
				event(workerID, models.EventKindClockOut, at(day, 13, rand.Intn(15))),
				event(workerID, models.EventKindClockIn, at(day, 14, rand.Intn(15))),
				event(workerID, models.EventKindClockOut, at(day, 17, 30+rand.Intn(30))),
			)
		}
	}

	return events
}

func event(memberID uuid.UUID, kind models.EventKind, ts time.Time) models.AttendanceEvent {
	return models.AttendanceEvent{MemberID: memberID, Kind: kind, Timestamp: ts}
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
