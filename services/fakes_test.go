package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/pkg/email"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/ws"
)

// Service testleri DB yerine in-memory fake repository'lerle çalışır.
// Fake'ler Mongo implementasyonlarıyla aynı sözleşmeyi uygular:
//   - Create, ID ve timestamp'leri set eder
//   - unique ihlali pkg.ErrAlreadyExists, bilinmeyen kayıt pkg.ErrNotFound döner
//   - listeler newest-first sıralıdır, ikinci dönüş filtreye uyan TOPLAM sayıdır
//   - okumalar kopya döner — service dönen struct'ı mutate eder (örn.
//     PasswordHash temizleme), store'daki kayıt bundan etkilenmemeli

// Compile-time interface kontrolleri.
var (
	_ repository.UserRepository          = (*fakeUserRepo)(nil)
	_ repository.SessionRepository       = (*fakeSessionRepo)(nil)
	_ repository.PostRepository          = (*fakePostRepo)(nil)
	_ repository.CategoryRepository      = (*fakeCategoryRepo)(nil)
	_ repository.PasswordResetRepository = (*fakeResetRepo)(nil)
	_ email.EmailSender                  = (*fakeSender)(nil)
	_ ws.EventPublisher                  = (*fakePublisher)(nil)
)

// ─── fakeUserRepo ───

type fakeUserRepo struct {
	mu    sync.Mutex
	users []models.User // insertion order — List tersten gezer (newest-first)
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{} }

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
		if u.Username == user.Username {
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, emailAddr string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == emailAddr {
			out := u
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var out []models.User
	for _, u := range f.users {
		if idSet[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := int64(len(f.users))
	ordered := make([]models.User, 0, len(f.users))
	for i := len(f.users) - 1; i >= 0; i-- {
		ordered = append(ordered, f.users[i])
	}

	start := (page - 1) * limit
	if start >= len(ordered) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[start:end], total, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == user.ID {
			// Mongo implementasyonu gibi sadece profil alanları yazılır —
			// PasswordHash'e dokunulmaz
			f.users[i].DisplayName = user.DisplayName
			f.users[i].Bio = user.Bio
			f.users[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID primitive.ObjectID, newPasswordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].PasswordHash = newPasswordHash
			f.users[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeUserRepo) SetActive(_ context.Context, userID primitive.ObjectID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].IsActive = active
			f.users[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// ─── fakeSessionRepo ───

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []models.Session
}

func newFakeSessionRepo() *fakeSessionRepo { return &fakeSessionRepo{} }

func (f *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeSessionRepo) GetByRefreshToken(_ context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.sessions {
		if s.RefreshToken == token {
			out := s
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeSessionRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeSessionRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.sessions[:0]
	for _, s := range f.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
	return nil
}

func (f *fakeSessionRepo) countForUser(userID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, s := range f.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// ─── fakePostRepo ───

type fakePostRepo struct {
	mu    sync.Mutex
	posts []models.Post
}

func newFakePostRepo() *fakePostRepo { return &fakePostRepo{} }

func (f *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return fmt.Errorf("%w: a post with this slug already exists", pkg.ErrAlreadyExists)
		}
	}

	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakePostRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakePostRepo) List(_ context.Context, filter repository.PostFilter, page, limit int) ([]models.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []models.Post
	for i := len(f.posts) - 1; i >= 0; i-- { // newest-first
		p := f.posts[i]
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.PublishedOnly && !p.Published {
			// Taslak sadece DraftAuthorID eşleşirse görünür
			if filter.DraftAuthorID == nil || p.AuthorID != *filter.DraftAuthorID {
				continue
			}
		}
		matches = append(matches, p)
	}

	total := int64(len(matches))
	start := (page - 1) * limit
	if start >= len(matches) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID != post.ID && f.posts[i].Slug == post.Slug {
			return fmt.Errorf("%w: a post with this slug already exists", pkg.ErrAlreadyExists)
		}
	}

	for i := range f.posts {
		if f.posts[i].ID == post.ID {
			post.UpdatedAt = time.Now().UTC()
			stored := *post
			stored.Author = nil // bson:"-" alanları document'a yazılmaz
			stored.Category = nil
			f.posts[i] = stored
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakePostRepo) ClearCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cleared int64
	for i := range f.posts {
		if f.posts[i].CategoryID != nil && *f.posts[i].CategoryID == categoryID {
			f.posts[i].CategoryID = nil
			cleared++
		}
	}
	return cleared, nil
}

func (f *fakePostRepo) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, p := range f.posts {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) Count(_ context.Context, onlyPublished bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, p := range f.posts {
		if !onlyPublished || p.Published {
			n++
		}
	}
	return n, nil
}

// ─── fakeCategoryRepo ───

type fakeCategoryRepo struct {
	mu          sync.Mutex
	categories  []models.Category
	getAllCalls int // cache testleri repo'ya kaç kez inildiğini sayar
}

func newFakeCategoryRepo() *fakeCategoryRepo { return &fakeCategoryRepo{} }

func (f *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.categories {
		if c.Slug == category.Slug {
			return fmt.Errorf("%w: a category with this slug already exists", pkg.ErrAlreadyExists)
		}
		if c.Name == category.Name {
			return fmt.Errorf("%w: a category with this name already exists", pkg.ErrAlreadyExists)
		}
	}

	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.categories {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.categories {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeCategoryRepo) GetAll(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getAllCalls++
	out := make([]models.Category, len(f.categories))
	copy(out, f.categories)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.categories {
		if f.categories[i].ID != category.ID && f.categories[i].Slug == category.Slug {
			return fmt.Errorf("%w: a category with this slug already exists", pkg.ErrAlreadyExists)
		}
	}

	for i := range f.categories {
		if f.categories[i].ID == category.ID {
			category.UpdatedAt = time.Now().UTC()
			f.categories[i] = *category
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeCategoryRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.categories)), nil
}

// ─── fakeResetRepo ───

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens []models.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo { return &fakeResetRepo{} }

func (f *fakeResetRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, *token)
	return nil
}

func (f *fakeResetRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tok := range f.tokens {
		if tok.TokenHash == tokenHash {
			out := tok
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeResetRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tokens {
		if f.tokens[i].ID == id {
			f.tokens = append(f.tokens[:i], f.tokens[i+1:]...)
			return nil
		}
	}
	return pkg.ErrNotFound
}

func (f *fakeResetRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.tokens[:0]
	for _, tok := range f.tokens {
		if tok.UserID != userID {
			kept = append(kept, tok)
		}
	}
	f.tokens = kept
	return nil
}

func (f *fakeResetRepo) GetLatestByUserID(_ context.Context, userID primitive.ObjectID) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.tokens) - 1; i >= 0; i-- {
		if f.tokens[i].UserID == userID {
			out := f.tokens[i]
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

// ─── fakeSender ───

type sentMail struct {
	to    string
	token string
}

// fakeSender, gönderilen reset maillerini kaydeder. fail true ise
// gönderim hata döner — send-failure temizliği bu bayrakla test edilir.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func newFakeSender() *fakeSender { return &fakeSender{} }

func (f *fakeSender) SendPasswordReset(_ context.Context, toEmail, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return fmt.Errorf("smtp connection refused")
	}
	f.sent = append(f.sent, sentMail{to: toEmail, token: token})
	return nil
}

// ─── fakePublisher ───

// fakePublisher, broadcast edilen event'leri sırasıyla biriktirir.
type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func newFakePublisher() *fakePublisher { return &fakePublisher{} }

func (f *fakePublisher) BroadcastToAll(event ws.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ops := make([]string, len(f.events))
	for i, e := range f.events {
		ops[i] = e.Op
	}
	return ops
}

func (f *fakePublisher) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// ─── Seed helpers ───

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func seedUser(t *testing.T, repo *fakeUserRepo, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedCategory(t *testing.T, repo *fakeCategoryRepo, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: models.Slugify(name)}
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return category
}
