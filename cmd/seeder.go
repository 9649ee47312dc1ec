package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal/auth"
	announcementDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/announcement"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/pkg/logger"
)

const seedPassword = "Password123"

var clearData bool

// clearOrder deletes children before parents.
var clearOrder = []string{
	"notifications",
	"announcements",
	"documents",
	"leave_requests",
	"tasks",
	"attendance",
	"employees",
	"users",
}

type seedEmployee struct {
	Email      string
	Name       string
	Department string
	Position   string
	Salary     int64
	HiredAgo   int
}

var seedEmployees = []seedEmployee{
	{"john.doe@staffsync.local", "John Doe", "Engineering", "Senior Engineer", 95000, 900},
	{"jane.smith@staffsync.local", "Jane Smith", "Engineering", "Engineer", 78000, 420},
	{"mike.chen@staffsync.local", "Mike Chen", "Sales", "Account Executive", 62000, 300},
	{"sara.lee@staffsync.local", "Sara Lee", "Marketing", "Marketing Specialist", 58000, 150},
	{"omar.haddad@staffsync.local", "Omar Haddad", "Finance", "Financial Analyst", 67000, 60},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an HR administrator, sample employees and announcements for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db, cfg.Env)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seed(gdb, hash, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		logger.LoggerWrapper().Info("seed completed", "password", seedPassword, "employees", len(seedEmployees))
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

func seed(db *gorm.DB, passwordHash string, clear bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, table := range clearOrder {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		admin, err := seedUser(tx, "hr@staffsync.local", "Helen Ramirez", "Human Resources", coreuser.RoleHRAdministrator, passwordHash)
		if err != nil {
			return err
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		for _, se := range seedEmployees {
			u, err := seedUser(tx, se.Email, se.Name, se.Department, coreuser.RoleEmployee, passwordHash)
			if err != nil {
				return err
			}
			if err := seedEmployeeRecord(tx, u, se, today); err != nil {
				return err
			}
		}

		return seedAnnouncements(tx, admin.ID)
	})
}

func seedUser(tx *gorm.DB, email, name, department string, role coreuser.Role, passwordHash string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		fmt.Println("user already exists:", email)
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dept := department
	u = userDatamodel.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role.String(),
		Name:         name,
		Department:   &dept,
		IsActive:     true,
	}
	if err := tx.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("insert user %s: %w", email, err)
	}
	fmt.Println("Seeded user:", email)
	return &u, nil
}

func seedEmployeeRecord(tx *gorm.DB, u *userDatamodel.User, se seedEmployee, today time.Time) error {
	var count int64
	if err := tx.Model(&employeeDatamodel.Employee{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hired := today.AddDate(0, 0, -se.HiredAgo)
	code, err := employeeDatamodel.NextCode(tx, hired)
	if err != nil {
		return err
	}
	e := employeeDatamodel.Employee{
		UserID:       u.ID,
		EmployeeCode: code,
		Position:     se.Position,
		HireDate:     hired,
		Salary:       decimal.NewFromInt(se.Salary),
		Status:       "active",
	}
	if err := tx.Omit("User").Create(&e).Error; err != nil {
		return fmt.Errorf("insert employee %s: %w", se.Email, err)
	}
	fmt.Printf("Seeded employee %s (%s)\n", se.Name, code)
	return nil
}

func seedAnnouncements(tx *gorm.DB, createdBy uuid.UUID) error {
	var count int64
	if err := tx.Model(&announcementDatamodel.Announcement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []announcementDatamodel.Announcement{
		{CreatedBy: createdBy, Title: "Welcome to StaffSync", Content: "Check in each morning from your dashboard and keep your tasks up to date.", Priority: "normal", TargetAudience: "all"},
		{CreatedBy: createdBy, Title: "Quarterly reviews", Content: "Performance reviews start next month. Please update your goals before then.", Priority: "high", TargetAudience: "employees"},
		{CreatedBy: createdBy, Title: "Payroll cut-off", Content: "Leave approvals for this period must be finalised by the 25th.", Priority: "urgent", TargetAudience: "hr"},
	}
	if err := tx.Omit("Creator").Create(&items).Error; err != nil {
		return fmt.Errorf("insert announcements: %w", err)
	}
	fmt.Println("Seeded announcements:", len(items))
	return nil
}
