package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/org-admin/internal"
	authPostgres "github.com/frahmantamala/org-admin/internal/auth/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Repository Suite")
}

var schema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		organization_id INTEGER,
		role_id INTEGER,
		phone TEXT,
		address TEXT,
		city TEXT,
		country TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE permissions (id INTEGER PRIMARY KEY, title TEXT NOT NULL)`,
	`CREATE TABLE role_permissions (role_id INTEGER NOT NULL, permission_id INTEGER NOT NULL, PRIMARY KEY (role_id, permission_id))`,
}

type statementRecorder struct {
	logger.Interface
	statements []string
}

func (r *statementRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *statementRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo *authPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		for _, stmt := range schema {
			Expect(db.Exec(stmt).Error).To(Succeed())
		}
		Expect(db.Exec(`INSERT INTO users (name, email, username, password_hash, status, role_id) VALUES
			('Jane', 'jane@example.com', 'jane', 'hash-1', 'active', 2),
			('Bob', 'bob@example.com', 'jane@example.com', 'hash-2', 'suspended', NULL)`).Error).To(Succeed())
		Expect(db.Exec(`INSERT INTO permissions (id, title) VALUES (1, 'users.read'), (2, 'tags.write'), (3, 'admin')`).Error).To(Succeed())
		Expect(db.Exec(`INSERT INTO role_permissions (role_id, permission_id) VALUES (2, 2), (2, 1)`).Error).To(Succeed())

		repo = authPostgres.NewRepository(db)
		ctx = context.Background()
	})

	Describe("FindByIdentifier", func() {
		It("finds a user by username", func() {
			acct, err := repo.FindByIdentifier(ctx, "jane")
			Expect(err).NotTo(HaveOccurred())
			Expect(acct.Email).To(Equal("jane@example.com"))
			Expect(acct.PasswordHash).To(Equal("hash-1"))
			Expect(*acct.RoleID).To(Equal(int64(2)))
		})

		It("prefers the email match over a colliding username", func() {
			acct, err := repo.FindByIdentifier(ctx, "jane@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(acct.Name).To(Equal("Jane"))
		})

		It("groups the identifier match ahead of the ordering and limit", func() {
			rec := &statementRecorder{Interface: logger.Default.LogMode(logger.Silent)}
			db.Logger = rec

			_, err := repo.FindByIdentifier(ctx, "jane")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.statements).To(HaveLen(1))
			Expect(rec.statements[0]).To(MatchRegexp(`FROM users WHERE \(email = .jane. OR username = .jane.\)\s+ORDER BY CASE WHEN email = .jane. THEN 0 ELSE 1 END\s+LIMIT 1$`))
		})

		It("returns not found for an unknown identifier", func() {
			_, err := repo.FindByIdentifier(ctx, "nobody")
			Expect(internal.IsKind(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("FindByEmail and FindByID", func() {
		It("loads the status and nullable references", func() {
			acct, err := repo.FindByEmail(ctx, "bob@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(acct.Status).To(Equal("suspended"))
			Expect(acct.RoleID).To(BeNil())

			byID, err := repo.FindByID(ctx, acct.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.Email).To(Equal("bob@example.com"))
		})
	})

	Describe("UpdatePassword", func() {
		It("replaces the stored hash", func() {
			acct, err := repo.FindByEmail(ctx, "jane@example.com")
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.UpdatePassword(ctx, acct.ID, "hash-3")).To(Succeed())

			acct, err = repo.FindByID(ctx, acct.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(acct.PasswordHash).To(Equal("hash-3"))
		})

		It("returns not found for an unknown id", func() {
			err := repo.UpdatePassword(ctx, 999, "x")
			Expect(internal.IsKind(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("PermissionTitles", func() {
		It("lists the titles linked to the role in order", func() {
			titles, err := repo.PermissionTitles(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(titles).To(Equal([]string{"tags.write", "users.read"}))
		})

		It("returns an empty list for a role without permissions", func() {
			titles, err := repo.PermissionTitles(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(titles).To(BeEmpty())
		})
	})
})
