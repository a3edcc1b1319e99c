package main

import (
	"context"
	"fmt"

	"github.com/archub/portfolio/portfolio/application"
	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/portfolio/persistence"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create an admin account and sample projects",
	Long: `Seed the database with an admin account and a few empty sample
projects. Safe to re-run: an existing admin account is left alone.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@example.com", "email for the admin account")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin", "password for the admin account")
}

func runSeed(cmd *cobra.Command, args []string) error {
	database, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	userRepo := persistence.NewUserRepository(sqlDB)

	if _, err := userRepo.GetUserByEmail(ctx, seedAdminEmail); err == nil {
		fmt.Printf("Admin account %s already exists, skipping\n", seedAdminEmail)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		id, err := userRepo.InsertUser(ctx, &domain.User{
			Username:     "admin",
			Email:        seedAdminEmail,
			PasswordHash: string(hash),
			IsAdmin:      true,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		fmt.Printf("Created admin account %s (id=%d)\n", seedAdminEmail, id)
	}

	projectRepo := persistence.NewProjectRepository(sqlDB)
	catalogue := application.NewCatalogueService(sqlDB, projectRepo, noopStore{})

	for _, area := range []string{"85 sqm apartment", "120 sqm duplex", "Studio 40 sqm"} {
		result, err := catalogue.CreateEmptyProject(ctx, area)
		if err != nil {
			return fmt.Errorf("failed to seed project %q: %w", area, err)
		}
		fmt.Printf("Created project %d: %s\n", result.Project.ID, area)
	}

	return nil
}

// noopStore satisfies the upload store for flows that never touch
// files; seeding creates empty projects only.
type noopStore struct{}

func (noopStore) Save(upload *domain.Upload, category string) (string, error) {
	return "", &domain.ValidationError{Message: "seeding does not store uploads"}
}

func (noopStore) Delete(reference string) bool { return false }
