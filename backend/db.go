package backend

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"netcafe/models"
)

// OpenDB connects to postgres when dsn looks like a postgres DSN and to a
// local SQLite file otherwise, then migrates the schema.
func OpenDB(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if isPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// TableNames lists the backend tables in dependency order.
func TableNames(db *gorm.DB) ([]string, error) {
	var names []string
	for _, m := range allModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

// Seed fills an empty database with a staff login, a student and a few computers.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	log.Println("[backend] seeding demo data")

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	studentHash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{Username: "admin", Email: "admin@netcafe.local", Password: string(adminHash), FullName: "Quản trị viên", Role: models.RoleAdmin}
	student := User{Username: "sv01", Email: "sv01@netcafe.local", Password: string(studentHash), FullName: "Nguyễn Văn An", Role: models.RoleStudent,
		DateOfBirth: time.Date(2003, 5, 12, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	if err := db.Create(&student).Error; err != nil {
		return err
	}
	now := time.Now()
	if err := db.Create(&Account{UserID: student.ID, Balance: 50000, LastDepositDate: &now}).Error; err != nil {
		return err
	}

	computers := []Computer{
		{Name: "PC-01", IPAddress: "192.168.1.101", Location: "Phòng A", Specifications: "i5-12400, 16GB RAM", HourlyRate: 8000},
		{Name: "PC-02", IPAddress: "192.168.1.102", Location: "Phòng A", Specifications: "i5-12400, 16GB RAM", HourlyRate: 8000},
		{Name: "PC-03", IPAddress: "192.168.1.103", Location: "Phòng B", Specifications: "i7-13700, 32GB RAM, RTX 4060", HourlyRate: 15000},
	}
	return db.Create(&computers).Error
}
