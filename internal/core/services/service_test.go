package services

import (
	"sync"
	"testing"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/config"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/password"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires every service against an in-memory database
type testEnv struct {
	db *gorm.DB

	apps          *ApplicationService
	blacklists    *BlacklistService
	notifications *NotificationService
	files         *FileService
	auth          *AuthService
	employees     *EmployeeService
	schedules     *ScheduleService
	statistics    *StatisticsService

	appRepo          *repositories.ApplicationRepository
	scheduleRepo     *repositories.ScheduleRepository
	notificationRepo *repositories.NotificationRepository
	employeeRepo     repositories.EmployeeRepository
	tokenRepo        repositories.RefreshTokenRepository

	hr      *models.Employee
	manager *models.Employee
	staff1  *models.Employee
	staff2  *models.Employee
}

var (
	testHashOnce sync.Once
	testHash     string
)

// testPasswordHash hashes the shared test password once; bcrypt at cost 12
// is too slow to repeat per test
func testPasswordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		hash, err := password.Hash("serenshift123")
		if err != nil {
			t.Fatalf("failed to hash test password: %v", err)
		}
		testHash = hash
	})
	return testHash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:               db,
		appRepo:          repositories.NewApplicationRepository(db),
		scheduleRepo:     repositories.NewScheduleRepository(db),
		notificationRepo: repositories.NewNotificationRepository(db),
		employeeRepo:     repositories.NewEmployeeRepository(db),
		tokenRepo:        repositories.NewRefreshTokenRepository(db),
	}

	fileRepo := repositories.NewFileRepository(db)
	blacklistRepo := repositories.NewBlacklistRepository(db)

	env.files = NewFileService(fileRepo, store)
	env.notifications = NewNotificationService(env.notificationRepo, config.NotifyConfig{})
	env.blacklists = NewBlacklistService(db, blacklistRepo, env.files)
	env.apps = NewApplicationService(db, env.appRepo, env.scheduleRepo, env.employeeRepo,
		env.blacklists, env.notifications, env.files)
	env.auth = NewAuthService(env.employeeRepo, env.tokenRepo, config.JWTConfig{
		Secret:           "test-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenMins:  15,
		RefreshTokenDays: 7,
	})
	env.employees = NewEmployeeService(env.employeeRepo)
	env.schedules = NewScheduleService(env.scheduleRepo)
	env.statistics = NewStatisticsService(env.appRepo, env.scheduleRepo, env.employeeRepo)

	env.seedEmployees(t)
	return env
}

func (env *testEnv) seedEmployees(t *testing.T) {
	t.Helper()
	hash := testPasswordHash(t)

	env.hr = &models.Employee{
		FirstName: "Harriet", LastName: "Rowe",
		Department: "Human Resources", Position: "HR Director",
		Email: "hr@serenshift.local", Password: hash,
		Role: domain.RoleHR, IsActive: true,
	}
	require.NoError(t, env.db.Create(env.hr).Error)

	env.manager = &models.Employee{
		FirstName: "Marcus", LastName: "Tan",
		Department: "Engineering", Position: "Engineering Manager",
		Email: "manager@serenshift.local", Password: hash,
		Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, env.db.Create(env.manager).Error)

	env.staff1 = &models.Employee{
		FirstName: "Siti", LastName: "Rahman",
		Department: "Engineering", Position: "Software Engineer",
		Email: "siti@serenshift.local", Password: hash,
		Role: domain.RoleStaff, ReportingManagerID: &env.manager.ID, IsActive: true,
	}
	require.NoError(t, env.db.Create(env.staff1).Error)

	env.staff2 = &models.Employee{
		FirstName: "Daniel", LastName: "Lim",
		Department: "Engineering", Position: "Software Engineer",
		Email: "daniel@serenshift.local", Password: hash,
		Role: domain.RoleStaff, ReportingManagerID: &env.manager.ID, IsActive: true,
	}
	require.NoError(t, env.db.Create(env.staff2).Error)
}

func actorOf(e *models.Employee) Actor {
	return Actor{ID: e.ID, Role: e.Role}
}

// futureDate returns a YYYY-MM-DD string the given number of days ahead
func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}
