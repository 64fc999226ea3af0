package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// MockUsersStore is a mock implementation of store.UsersStore
type MockUsersStore struct {
	mock.Mock
}

var _ store.UsersStore = (*MockUsersStore)(nil)

func (m *MockUsersStore) CreateUser(user *model.User) (*model.User, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) UserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) UserByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) UserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) ListUsers(skip, limit int) ([]model.User, error) {
	args := m.Called(skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) UpdateUser(id int, updates map[string]interface{}) (*model.User, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUsersStore) UserPosts(userID int, filter store.UserPostsFilter) ([]model.Post, error) {
	args := m.Called(userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockUsersStore) UserComments(userID int, filter store.UserCommentsFilter) ([]model.Comment, error) {
	args := m.Called(userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

// MockPostsStore is a mock implementation of store.PostsStore
type MockPostsStore struct {
	mock.Mock
}

var _ store.PostsStore = (*MockPostsStore)(nil)

func (m *MockPostsStore) CreatePost(post *model.Post) (*model.Post, error) {
	args := m.Called(post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostsStore) PostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostsStore) PostByTitle(title string) (*model.Post, error) {
	args := m.Called(title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostsStore) ListPosts(filter store.PostsFilter) ([]model.Post, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostsStore) UpdatePost(id int, updates map[string]interface{}) (*model.Post, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostsStore) DeletePost(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoriesStore is a mock implementation of store.CategoriesStore
type MockCategoriesStore struct {
	mock.Mock
}

var _ store.CategoriesStore = (*MockCategoriesStore)(nil)

func (m *MockCategoriesStore) CreateCategory(name string) (*model.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoriesStore) CategoryByID(id int) (*model.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoriesStore) CategoryByName(name string) (*model.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoriesStore) ListCategories(skip, limit int) ([]model.Category, error) {
	args := m.Called(skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockCommentsStore is a mock implementation of store.CommentsStore
type MockCommentsStore struct {
	mock.Mock
}

var _ store.CommentsStore = (*MockCommentsStore)(nil)

func (m *MockCommentsStore) CreateComment(comment *model.Comment) (*model.Comment, error) {
	args := m.Called(comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentsStore) CommentByID(id int) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentsStore) UpdateComment(id int, body string) (*model.Comment, error) {
	args := m.Called(id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentsStore) DeleteComment(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommentsStore) RateComment(commentID, userID int, action string) (*model.Comment, error) {
	args := m.Called(commentID, userID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

// MockHealthStore is a mock implementation of store.HealthStore
type MockHealthStore struct {
	mock.Mock
}

var _ store.HealthStore = (*MockHealthStore)(nil)

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
