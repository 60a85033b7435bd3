package repository

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/model"
)

func testRepo(t *testing.T) *UserRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "campus.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := model.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return NewUserRepo(db)
}

func createTestUser(t *testing.T, repo *UserRepo, handle, email string, role model.Role) *model.User {
	t.Helper()
	ctx := context.Background()

	record, err := repo.FindRole(ctx, role)
	if err != nil {
		t.Fatalf("FindRole failed: %v", err)
	}

	user := &model.User{
		Handle:       handle,
		Email:        email,
		PasswordHash: "$2a$10$placeholderplaceholderplace",
		RoleID:       record.ID,
	}
	profile := &model.Profile{FirstName: "Test", LastName: "User"}
	if err := repo.Create(ctx, user, profile); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return user
}

func TestFindByHandle(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	createTestUser(t, repo, "alice", "alice@campus.test", model.RoleStudent)

	user, err := repo.FindByHandle(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByHandle failed: %v", err)
	}
	if user.Role.Name != model.RoleStudent.String() {
		t.Errorf("role = %q, want Student", user.Role.Name)
	}
	if user.Profile == nil || user.Profile.FirstName != "Test" {
		t.Errorf("profile not preloaded: %+v", user.Profile)
	}

	_, err = repo.FindByHandle(ctx, "nobody")
	if code := errors.Code(err); code != 404 {
		t.Errorf("missing handle error code = %d, want 404", code)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	createTestUser(t, repo, "alice", "alice@campus.test", model.RoleStudent)

	cases := []struct {
		handle, email string
		want          bool
	}{
		{"alice", "other@campus.test", true},
		{"other", "alice@campus.test", true},
		{"alice", "alice@campus.test", true},
		{"bob", "bob@campus.test", false},
	}
	for _, tc := range cases {
		got, err := repo.Exists(ctx, tc.handle, tc.email)
		if err != nil {
			t.Fatalf("Exists(%s, %s) failed: %v", tc.handle, tc.email, err)
		}
		if got != tc.want {
			t.Errorf("Exists(%s, %s) = %v, want %v", tc.handle, tc.email, got, tc.want)
		}
	}
}

func TestFindRole(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	for _, role := range model.Roles() {
		record, err := repo.FindRole(ctx, role)
		if err != nil {
			t.Fatalf("FindRole(%s) failed: %v", role, err)
		}
		if record.Name != role.String() {
			t.Errorf("FindRole(%s) returned %q", role, record.Name)
		}
	}

	_, err := repo.FindRole(ctx, model.Role("Superuser"))
	if code := errors.Code(err); code != 400 {
		t.Errorf("unknown role error code = %d, want 400", code)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	createTestUser(t, repo, "alice", "alice@campus.test", model.RoleStudent)

	record, err := repo.FindRole(ctx, model.RoleStudent)
	if err != nil {
		t.Fatalf("FindRole failed: %v", err)
	}

	dup := &model.User{
		Handle:       "alice",
		Email:        "alice2@campus.test",
		PasswordHash: "$2a$10$placeholderplaceholderplace",
		RoleID:       record.ID,
	}
	if err := repo.Create(ctx, dup, &model.Profile{FirstName: "A", LastName: "B"}); err == nil {
		t.Error("duplicate handle accepted")
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	createTestUser(t, repo, "carol", "carol@campus.test", model.RoleInstructor)
	createTestUser(t, repo, "alice", "alice@campus.test", model.RoleStudent)

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("List returned %d users, want 2", len(users))
	}
	if users[0].Handle != "alice" || users[1].Handle != "carol" {
		t.Errorf("List not ordered by handle: %s, %s", users[0].Handle, users[1].Handle)
	}
	for _, u := range users {
		if u.Role.Name == "" {
			t.Errorf("role not preloaded for %s", u.Handle)
		}
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	instructor := createTestUser(t, repo, "carol", "carol@campus.test", model.RoleInstructor)

	course := model.Course{Title: "Databases", InstructorID: instructor.ID}
	if err := repo.db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	mod := model.Module{CourseID: course.ID, Title: "Indexing"}
	if err := repo.db.Create(&mod).Error; err != nil {
		t.Fatalf("create module: %v", err)
	}

	if err := repo.Delete(ctx, "carol"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.FindByHandle(ctx, "carol"); errors.Code(err) != 404 {
		t.Errorf("deleted user still found, err = %v", err)
	}

	var count int64
	for _, m := range []any{&model.Course{}, &model.Module{}, &model.Profile{}} {
		if err := repo.db.Model(m).Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Errorf("%T rows remaining after delete: %d", m, count)
		}
	}
}

func TestDeleteMissingHandle(t *testing.T) {
	repo := testRepo(t)
	err := repo.Delete(context.Background(), "nobody")
	if errors.Code(err) != 404 {
		t.Errorf("error code = %d, want 404", errors.Code(err))
	}
}
