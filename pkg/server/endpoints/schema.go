package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/render"
)

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserBrief identifies a user in nested responses
type UserBrief struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// UserShow is the full user representation
type UserShow struct {
	ID               int        `json:"id"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Image            string     `json:"image,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Rating           int        `json:"rating"`
	About            string     `json:"about,omitempty"`
	SocialMediaLinks []string   `json:"social_media_links,omitempty"`
	IsActive         bool       `json:"is_active"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	DateJoined       time.Time  `json:"date_joined"`
}

// CategoryBrief identifies a category by name in nested responses
type CategoryBrief struct {
	Name string `json:"name"`
}

// PostBrief identifies a post in nested responses
type PostBrief struct {
	ID    int      `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// CategoryShow is the full category representation
type CategoryShow struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Posts []PostBrief `json:"posts"`
}

// CommentShow is the full comment representation
type CommentShow struct {
	ID       int         `json:"id"`
	Body     string      `json:"body"`
	Likes    []UserBrief `json:"likes"`
	Dislikes []UserBrief `json:"dislikes"`
	Created  time.Time   `json:"created"`
	Updated  time.Time   `json:"updated"`
}

// UserCommentShow is a comment as listed on the owner's dashboard, with
// the post it was left on
type UserCommentShow struct {
	CommentShow
	Post PostBrief `json:"post"`
}

// PostShow is the full post representation. Body carries the markdown
// source rendered to HTML.
type PostShow struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Tags          []string      `json:"tags"`
	Body          string        `json:"body"`
	Category      CategoryBrief `json:"category"`
	Rating        int           `json:"rating"`
	IsPublish     bool          `json:"is_publish"`
	Owner         UserBrief     `json:"owner"`
	CountComments int           `json:"count_comments"`
	Comments      []CommentShow `json:"comments"`
	Created       time.Time     `json:"created"`
	Updated       time.Time     `json:"updated"`
}

// UserPostShow is a post as listed on the owner's dashboard
type UserPostShow struct {
	ID        int           `json:"id"`
	Title     string        `json:"title"`
	Tags      []string      `json:"tags"`
	Category  CategoryBrief `json:"category"`
	Rating    int           `json:"rating"`
	IsPublish bool          `json:"is_publish"`
	Created   time.Time     `json:"created"`
	Updated   time.Time     `json:"updated"`
}

func newUserBrief(user *model.User) UserBrief {
	if user == nil {
		return UserBrief{}
	}
	return UserBrief{ID: user.ID, Username: user.Username}
}

func newUserBriefs(users []model.User) []UserBrief {
	briefs := make([]UserBrief, 0, len(users))
	for i := range users {
		briefs = append(briefs, newUserBrief(&users[i]))
	}
	return briefs
}

// requestScheme reports the scheme the client used, honoring TLS offload
// at a proxy
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func newUserShow(user *model.User, cfg *config.BlogConfig, scheme string) UserShow {
	image := user.Image
	if image != "" && cfg != nil {
		image = fmt.Sprintf("%s://%s/static/%s", scheme, cfg.Domain, image)
	}
	return UserShow{
		ID:               user.ID,
		Username:         user.Username,
		Role:             user.Role,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Email:            user.Email,
		Image:            image,
		Gender:           user.Gender,
		DateOfBirth:      user.DateOfBirth,
		Rating:           user.Rating,
		About:            user.About,
		SocialMediaLinks: user.SocialMediaLinks,
		IsActive:         user.IsActive,
		LastLogin:        user.LastLogin,
		DateJoined:       user.DateJoined,
	}
}

func newCommentShow(comment *model.Comment) CommentShow {
	return CommentShow{
		ID:       comment.ID,
		Body:     comment.Body,
		Likes:    newUserBriefs(comment.Likes),
		Dislikes: newUserBriefs(comment.Dislikes),
		Created:  comment.Created,
		Updated:  comment.Updated,
	}
}

func newUserCommentShow(comment *model.Comment) UserCommentShow {
	show := UserCommentShow{CommentShow: newCommentShow(comment)}
	if comment.Post != nil {
		show.Post = PostBrief{ID: comment.Post.ID, Title: comment.Post.Title, Tags: comment.Post.Tags}
	}
	return show
}

func newPostShow(post *model.Post) PostShow {
	comments := make([]CommentShow, 0, len(post.Comments))
	for i := range post.Comments {
		comments = append(comments, newCommentShow(&post.Comments[i]))
	}

	category := CategoryBrief{}
	if post.Category != nil {
		category.Name = post.Category.Name
	}

	return PostShow{
		ID:            post.ID,
		Title:         post.Title,
		Tags:          post.Tags,
		Body:          render.Markdown(post.Body),
		Category:      category,
		Rating:        post.Rating,
		IsPublish:     post.IsPublish,
		Owner:         newUserBrief(post.Owner),
		CountComments: len(post.Comments),
		Comments:      comments,
		Created:       post.Created,
		Updated:       post.Updated,
	}
}

func newUserPostShow(post *model.Post) UserPostShow {
	category := CategoryBrief{}
	if post.Category != nil {
		category.Name = post.Category.Name
	}
	return UserPostShow{
		ID:        post.ID,
		Title:     post.Title,
		Tags:      post.Tags,
		Category:  category,
		Rating:    post.Rating,
		IsPublish: post.IsPublish,
		Created:   post.Created,
		Updated:   post.Updated,
	}
}

func newCategoryShow(category *model.Category) CategoryShow {
	posts := make([]PostBrief, 0, len(category.Posts))
	for _, post := range category.Posts {
		posts = append(posts, PostBrief{ID: post.ID, Title: post.Title, Tags: post.Tags})
	}
	return CategoryShow{ID: category.ID, Name: category.Name, Posts: posts}
}
