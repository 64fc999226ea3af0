// Package store provides storage abstractions for the blog server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - UsersStore: Account operations (create, activate, reset password)
//   - PostsStore: Post CRUD with category filtering and sorting
//   - CategoriesStore: Post category operations
//   - CommentsStore: Comment CRUD plus like/dislike rating
//   - HealthStore: Database connectivity checks
//
// # Usage
//
//	users := gorm.NewUsersStore(db)
//	user, err := users.UserByID(42)
//	if err != nil {
//	    if errors.Is(err, store.ErrUserNotFound) {
//	        // Handle not found
//	    }
//	}
package store
