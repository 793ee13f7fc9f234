package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/org-admin/internal/auth"
	organizationDatamodel "github.com/frahmantamala/org-admin/internal/core/datamodel/organization"
	"github.com/frahmantamala/org-admin/internal/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedResources = []string{"users", "roles", "permissions", "suppliers", "tags"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an organization, the resource permissions, two roles and two users.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"role_permissions", "users", "roles", "permissions", "suppliers", "tags", "organizations"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		org := organizationDatamodel.Organization{Name: "Acme", Domain: "acme.example.com"}
		if err := db.Where("domain = ?", org.Domain).
			Attrs(organizationDatamodel.Organization{Metadata: map[string]any{"plan": "trial"}}).
			FirstOrCreate(&org).Error; err != nil {
			log.Fatalf("failed to seed organization: %v", err)
		}
		fmt.Println("Seeded organization:", org.Domain)

		permissionIDs := map[string]int64{}
		titles := []string{auth.PermissionAdmin}
		for _, r := range seedResources {
			titles = append(titles, r+".read", r+".write")
		}
		for _, title := range titles {
			id, err := ensureRow(db, "permissions", title, "Seeded permission")
			if err != nil {
				log.Fatalf("failed to seed permission %s: %v", title, err)
			}
			permissionIDs[title] = id
		}

		adminRole, err := ensureRow(db, "roles", "Administrator", "Full access")
		if err != nil {
			log.Fatalf("failed to seed admin role: %v", err)
		}
		viewerRole, err := ensureRow(db, "roles", "Viewer", "Read-only access")
		if err != nil {
			log.Fatalf("failed to seed viewer role: %v", err)
		}

		grant(db, adminRole, permissionIDs[auth.PermissionAdmin])
		for _, r := range seedResources {
			grant(db, viewerRole, permissionIDs[r+".read"])
		}
		fmt.Println("Granted role permissions")

		hasher := auth.NewBcryptHasher(cfg.Security.PasswordCost())
		hash, err := hasher.Hash("password")
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		accounts := []struct {
			Name, Email, Username string
			RoleID                int64
		}{
			{"Padil Admin", "admin@acme.example.com", "admin", adminRole},
			{"Fadhil", "fadhil@acme.example.com", "fadhil", viewerRole},
		}
		for _, a := range accounts {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", a.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists:", a.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (name, email, username, password_hash, status, organization_id, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())",
				a.Name, a.Email, a.Username, hash, user.StatusActive, org.ID, a.RoleID,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user:", a.Email)
		}
	},
}

// ensureRow returns the id of the row with the given title, inserting it when missing.
func ensureRow(db *gorm.DB, table, title, description string) (int64, error) {
	var id int64
	if err := db.Raw("SELECT id FROM "+table+" WHERE title = ?", title).Row().Scan(&id); err == nil {
		return id, nil
	}
	err := db.Raw(
		"INSERT INTO "+table+" (title, description, created_at, updated_at) VALUES (?, ?, now(), now()) RETURNING id",
		title, description,
	).Row().Scan(&id)
	return id, err
}

func grant(db *gorm.DB, roleID, permissionID int64) {
	if err := db.Exec(
		"INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		roleID, permissionID,
	).Error; err != nil {
		log.Fatalf("failed to grant permission %d to role %d: %v", permissionID, roleID, err)
	}
}
