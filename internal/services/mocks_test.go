package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
)

// Mock UserRepository
type mockUserRepository struct {
	users map[string]*entities.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*entities.User),
	}
}

func (m *mockUserRepository) add(id, username string) *entities.User {
	user := &entities.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Graph:        entities.NewUserGraph(),
	}
	m.users[id] = user
	return user
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("%w: username or email taken", entities.ErrConflict)
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, exists := m.users[id]
	return exists, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	if _, exists := m.users[user.ID]; !exists {
		return fmt.Errorf("%w: user %s", entities.ErrNotFound, user.ID)
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) UpdatePair(ctx context.Context, firstID, secondID string, mutate repositories.UserPairMutator) error {
	if firstID == secondID {
		return fmt.Errorf("%w: identical user ids", entities.ErrInvalidArgument)
	}
	first, exists := m.users[firstID]
	if !exists {
		return fmt.Errorf("%w: user %s", entities.ErrNotFound, firstID)
	}
	second, exists := m.users[secondID]
	if !exists {
		return fmt.Errorf("%w: user %s", entities.ErrNotFound, secondID)
	}
	return mutate(first, second)
}

// Mock GroupRepository
type mockGroupRepository struct {
	groups map[string]*entities.Group
}

func newMockGroupRepository() *mockGroupRepository {
	return &mockGroupRepository{
		groups: make(map[string]*entities.Group),
	}
}

func (m *mockGroupRepository) Create(ctx context.Context, group *entities.Group) error {
	m.groups[group.ID] = group
	return nil
}

func (m *mockGroupRepository) GetByID(ctx context.Context, id string) (*entities.Group, error) {
	group, exists := m.groups[id]
	if !exists {
		return nil, nil
	}
	return group, nil
}

func (m *mockGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	groups := make([]*entities.Group, 0, len(m.groups))
	for _, group := range m.groups {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	return groups, nil
}

func (m *mockGroupRepository) Update(ctx context.Context, id string, mutate repositories.GroupMutator) error {
	group, exists := m.groups[id]
	if !exists {
		return fmt.Errorf("%w: group %s", entities.ErrNotFound, id)
	}
	return mutate(group)
}

// Mock PostRepository
type mockPostRepository struct {
	posts map[string]*entities.Post
}

func newMockPostRepository() *mockPostRepository {
	return &mockPostRepository{
		posts: make(map[string]*entities.Post),
	}
}

func (m *mockPostRepository) Create(ctx context.Context, post *entities.Post) error {
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	post, exists := m.posts[id]
	if !exists {
		return nil, nil
	}
	return post, nil
}

func (m *mockPostRepository) List(ctx context.Context, limit, offset int) ([]*entities.Post, int, error) {
	all := make([]*entities.Post, 0, len(m.posts))
	for _, post := range m.posts {
		all = append(all, post)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockPostRepository) Update(ctx context.Context, id string, mutate repositories.PostMutator) error {
	post, exists := m.posts[id]
	if !exists {
		return fmt.Errorf("%w: post %s", entities.ErrNotFound, id)
	}
	return mutate(post)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

// Mock CommentRepository
type mockCommentRepository struct {
	comments map[string]*entities.Comment
}

func newMockCommentRepository() *mockCommentRepository {
	return &mockCommentRepository{
		comments: make(map[string]*entities.Comment),
	}
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	comment, exists := m.comments[id]
	if !exists {
		return nil, nil
	}
	return comment, nil
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID string, limit int) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0)
	for _, comment := range m.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, id string, mutate repositories.CommentMutator) error {
	comment, exists := m.comments[id]
	if !exists {
		return fmt.Errorf("%w: comment %s", entities.ErrNotFound, id)
	}
	return mutate(comment)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	delete(m.comments, id)
	return nil
}
