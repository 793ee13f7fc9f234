package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

type MockRepository struct {
	created map[string]any
}

func (m *MockRepository) List(context.Context, crud.ListParams) (query.Result[user.User], error) {
	return query.Result[user.User]{Items: []user.User{}}, nil
}

func (m *MockRepository) Get(_ context.Context, id int64) (*user.User, error) {
	return &user.User{ID: id, Status: user.StatusActive}, nil
}

func (m *MockRepository) Create(_ context.Context, input map[string]any) (*user.User, error) {
	m.created = input
	return &user.User{ID: 1, Email: input["email"].(string), Status: input["status"].(string)}, nil
}

func (m *MockRepository) Update(_ context.Context, id int64, _ map[string]any) (*user.User, error) {
	return &user.User{ID: id}, nil
}

func (m *MockRepository) Delete(context.Context, int64) error {
	return nil
}

type stubHasher struct {
	err error
}

func (h stubHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *MockRepository
		service *user.Service
		ctx     context.Context
		slogger *slog.Logger
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, stubHasher{}, slogger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("stores the hash instead of the plaintext password", func() {
			u, err := service.Create(ctx, map[string]any{
				"name": "Jane", "email": "jane@example.com", "username": "jane", "password": "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Status).To(Equal(user.StatusActive))
			Expect(repo.created).NotTo(HaveKey("password"))
			Expect(repo.created).To(HaveKeyWithValue("password_hash", "hashed:correct-horse"))
		})

		It("keeps an explicit status", func() {
			u, err := service.Create(ctx, map[string]any{
				"name": "Jo", "email": "jo@example.com", "username": "jo", "password": "12345678", "status": "inactive",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Status).To(Equal(user.StatusInactive))
		})

		It("refuses a client supplied hash", func() {
			_, err := service.Create(ctx, map[string]any{"email": "x@example.com", "password_hash": "$2a$..."})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
			Expect(repo.created).To(BeNil())
		})

		It("requires a password of at least eight characters", func() {
			_, err := service.Create(ctx, map[string]any{"email": "x@example.com", "password": "short"})
			Expect(internal.IsKind(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("reports hashing failures as internal errors", func() {
			service = user.NewService(repo, stubHasher{err: errors.New("boom")}, slogger)
			_, err := service.Create(ctx, map[string]any{"email": "x@example.com", "password": "long enough"})
			Expect(internal.IsKind(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("Profile field table", func() {
		It("does not allow password columns to be patched", func() {
			Expect(user.Profile.Has("password")).To(BeFalse())
			Expect(user.Profile.Has("password_hash")).To(BeFalse())
			Expect(user.Insertable().Has("password_hash")).To(BeTrue())
		})
	})
})
