package gorm

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

func testUser(username, email string) *model.User {
	return &model.User{
		Username:       username,
		Email:          email,
		Role:           model.RoleRegularUser,
		HashedPassword: "x",
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return gormDB, mock
}

func TestUserByIDNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	users := NewUsersStore(gormDB)

	// LIMIT is rendered inline, so the primary key is the only bind arg
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE "users"."id" = \$1(.+)LIMIT 1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := users.UserByID(42)
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("UserByID() error = %v, want ErrUserNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserByUsername(t *testing.T) {
	gormDB, mock := newMockDB(t)
	users := NewUsersStore(gormDB)

	rows := sqlmock.NewRows([]string{"id", "username", "role", "email", "is_active"}).
		AddRow(7, "chusiang", "regular-user", "chusiang@example.com", true)
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE username = \$1(.+)LIMIT 1`).
		WithArgs("chusiang").
		WillReturnRows(rows)

	user, err := users.UserByUsername("chusiang")
	if err != nil {
		t.Fatalf("UserByUsername() error = %v", err)
	}
	if user.ID != 7 || user.Email != "chusiang@example.com" {
		t.Errorf("UserByUsername() = %+v", user)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	gormDB, mock := newMockDB(t)
	users := NewUsersStore(gormDB)

	mock.ExpectQuery(`SELECT count\(1\) FROM "users" WHERE username = \$1`).
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := users.CreateUser(testUser("taken", "taken@example.com"))
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Errorf("CreateUser() error = %v, want ErrDuplicateUsername", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	gormDB, mock := newMockDB(t)
	users := NewUsersStore(gormDB)

	mock.ExpectQuery(`SELECT count\(1\) FROM "users" WHERE username = \$1`).
		WithArgs("fresh").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(1\) FROM "users" WHERE email = \$1`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := users.CreateUser(testUser("fresh", "taken@example.com"))
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("CreateUser() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	gormDB, mock := newMockDB(t)
	categories := NewCategoriesStore(gormDB)

	mock.ExpectQuery(`SELECT count\(1\) FROM "postcategories" WHERE name = \$1`).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := categories.CreateCategory("golang")
	if !errors.Is(err, store.ErrDuplicateCategory) {
		t.Errorf("CreateCategory() error = %v, want ErrDuplicateCategory", err)
	}
}

func TestCreateCategory(t *testing.T) {
	gormDB, mock := newMockDB(t)
	categories := NewCategoriesStore(gormDB)

	mock.ExpectQuery(`SELECT count\(1\) FROM "postcategories" WHERE name = \$1`).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "postcategories"`).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	category, err := categories.CreateCategory("golang")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if category.ID != 3 || category.Name != "golang" {
		t.Errorf("CreateCategory() = %+v", category)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateCommentNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	comments := NewCommentsStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := comments.UpdateComment(99, "edited")
	if !errors.Is(err, store.ErrCommentNotFound) {
		t.Errorf("UpdateComment() error = %v, want ErrCommentNotFound", err)
	}
}

func TestRateCommentInvalidAction(t *testing.T) {
	gormDB, _ := newMockDB(t)
	comments := NewCommentsStore(gormDB)

	_, err := comments.RateComment(1, 1, "upvote")
	if !errors.Is(err, store.ErrInvalidRateAction) {
		t.Errorf("RateComment() error = %v, want ErrInvalidRateAction", err)
	}
}

func TestListPostsFiltersUnpublished(t *testing.T) {
	gormDB, mock := newMockDB(t)
	posts := NewPostsStore(gormDB)

	// Preload queries fire in map order, so return no rows to keep the
	// expectations deterministic. The point is the bound is_publish filter.
	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE is_publish = \$1(.+)LIMIT 10`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "category_id", "is_publish"}))

	result, err := posts.ListPosts(store.PostsFilter{Skip: 0, Limit: 10})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ListPosts() = %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
