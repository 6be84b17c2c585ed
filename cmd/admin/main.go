// Ops CLI for the tasks that have no HTTP surface: role assignment (roles are
// never self-escalated, so somebody outside the API has to grant them) and
// bootstrapping worker and profile records.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hostelcare/backend/internal/config"
	"hostelcare/backend/internal/models"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "assign-role":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin assign-role <user_id> <resident|admin|worker>")
			os.Exit(1)
		}
		if err := assignRole(db, os.Args[2], models.Role(os.Args[3])); err != nil {
			log.Fatalf("Error assigning role: %v", err)
		}
		fmt.Printf("User %s is now %s.\n", os.Args[2], os.Args[3])

	case "create-worker":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-worker <user_id> <worker_type>")
			os.Exit(1)
		}
		if err := createWorker(db, os.Args[2], models.StaffType(os.Args[3])); err != nil {
			log.Fatalf("Error creating worker: %v", err)
		}
		fmt.Printf("Worker record created for %s.\n", os.Args[2])

	case "set-profile":
		if len(os.Args) != 8 {
			fmt.Println("Usage: admin set-profile <user_id> <full_name> <hostel> <block> <floor> <room>")
			os.Exit(1)
		}
		if err := setProfile(db, os.Args[2:8]); err != nil {
			log.Fatalf("Error saving profile: %v", err)
		}
		fmt.Printf("Profile saved for %s.\n", os.Args[2])

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <assign-role|create-worker|set-profile> [args]")
	os.Exit(1)
}

func assignRole(db *gorm.DB, userID string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	var existing models.UserRole
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		existing.Role = role
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&models.UserRole{UserID: userID, Role: role}).Error
}

func createWorker(db *gorm.DB, userID string, workerType models.StaffType) error {
	if !workerType.Valid() {
		return fmt.Errorf("unknown worker type %q", workerType)
	}
	if err := assignRole(db, userID, models.RoleWorker); err != nil {
		return err
	}
	return db.Create(&models.Worker{
		UserID:      userID,
		WorkerType:  workerType,
		IsAvailable: true,
	}).Error
}

func setProfile(db *gorm.DB, args []string) error {
	userID := args[0]
	profile := models.Profile{
		UserID:     userID,
		FullName:   args[1],
		HostelName: &args[2],
		Block:      &args[3],
		Floor:      &args[4],
		RoomNumber: &args[5],
	}

	var existing models.Profile
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		profile.ID = existing.ID
		return db.Save(&profile).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&profile).Error
}
