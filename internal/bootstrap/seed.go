package bootstrap

import (
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.PasswordReset{},
		&model.CandidateProfile{},
		&model.OrgProfile{},
		&model.JobPosting{},
		&model.Application{},
		&model.Announcement{},
		&model.Notification{},
		&model.Chat{},
		&model.ChatMessage{},
		&model.Event{},
		&model.Faculty{},
		&model.Course{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleAdmin, Description: "Platform administrator"},
		{Name: model.RoleStudent, Description: "Student looking for opportunities"},
		{Name: model.RoleInstitute, Description: "Educational institute"},
		{Name: model.RoleCompany, Description: "Hiring company"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the development admin account. Only call this in
// development environments.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@careerfindr.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		FullName:     "Administrator",
		Email:        "admin@careerfindr.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
		Status:       model.UserStatusActive,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@careerfindr.local")
	log.Println("   Password: admin123")

	return nil
}
