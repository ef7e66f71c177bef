package config

import (
	"log"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedEmployees(); err != nil {
		log.Printf("⚠️ Employee seeder skipped: %v", err)
	}
	if err := s.seedBlacklists(); err != nil {
		log.Printf("⚠️ Blacklist seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedEmployees seeds a default HR admin, one manager and two staff.
// This is for development/testing only.
func (s *Seeder) seedEmployees() error {
	var count int64
	s.db.Model(&models.Employee{}).Count(&count)
	if count > 0 {
		return nil // Employees already exist
	}

	hashed, err := password.Hash("serenshift123")
	if err != nil {
		return err
	}

	hr := &models.Employee{
		FirstName:  "Harriet",
		LastName:   "Rowe",
		Department: "Human Resources",
		Position:   "HR Director",
		Country:    "Singapore",
		Email:      "hr@serenshift.local",
		Password:   hashed,
		Role:       domain.RoleHR,
		IsActive:   true,
	}
	if err := s.db.Create(hr).Error; err != nil {
		return err
	}

	manager := &models.Employee{
		FirstName:  "Marcus",
		LastName:   "Tan",
		Department: "Engineering",
		Position:   "Engineering Manager",
		Country:    "Singapore",
		Email:      "manager@serenshift.local",
		Password:   hashed,
		Role:       domain.RoleManager,
		IsActive:   true,
	}
	if err := s.db.Create(manager).Error; err != nil {
		return err
	}

	staff := []*models.Employee{
		{
			FirstName:          "Siti",
			LastName:           "Rahman",
			Department:         "Engineering",
			Position:           "Software Engineer",
			Country:            "Singapore",
			Email:              "siti@serenshift.local",
			Password:           hashed,
			Role:               domain.RoleStaff,
			ReportingManagerID: &manager.ID,
			IsActive:           true,
		},
		{
			FirstName:          "Daniel",
			LastName:           "Lim",
			Department:         "Engineering",
			Position:           "Software Engineer",
			Country:            "Singapore",
			Email:              "daniel@serenshift.local",
			Password:           hashed,
			Role:               domain.RoleStaff,
			ReportingManagerID: &manager.ID,
			IsActive:           true,
		},
	}
	for _, e := range staff {
		if err := s.db.Create(e).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d employees", len(staff)+2)
	return nil
}

// seedBlacklists seeds a sample company-wide blocked window (next month's
// first working day)
func (s *Seeder) seedBlacklists() error {
	var count int64
	s.db.Model(&models.Blacklist{}).Count(&count)
	if count > 0 {
		return nil
	}

	var admin models.Employee
	if err := s.db.Where("role = ?", domain.RoleHR).First(&admin).Error; err != nil {
		return err
	}

	now := time.Now()
	firstOfNextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	blacklist := &models.Blacklist{
		StartDate:      firstOfNextMonth,
		EndDate:        firstOfNextMonth.Add(24*time.Hour - time.Second),
		Remarks:        "Quarterly town hall - on-site attendance required",
		CreatedByID:    admin.ID,
		LastUpdateByID: admin.ID,
	}
	if err := s.db.Create(blacklist).Error; err != nil {
		return err
	}

	log.Println("✅ Seeded sample blacklist window")
	return nil
}
