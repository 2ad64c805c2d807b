package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/conspiralab/conspiralab/internal/config"
	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/model"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/session"
)

// memUsers is an in-memory user store satisfying both the auth handler's
// UserStore and the enricher's UserFinder.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range m.byID {
		if other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.byID[u.ID.Hex()] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

// memTheories is an in-memory TheoryStore.
type memTheories struct {
	mu    sync.Mutex
	items map[string]*model.Theory
}

func newMemTheories() *memTheories { return &memTheories{items: map[string]*model.Theory{}} }

func (m *memTheories) Create(_ context.Context, t *model.Theory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.items {
		if other.Slug == t.Slug {
			return repository.ErrSlugExists
		}
	}
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.items[t.ID.Hex()] = t
	return nil
}

func (m *memTheories) List(_ context.Context) ([]model.Theory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Theory, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTheories) GetByID(_ context.Context, id string) (*model.Theory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memTheories) Update(_ context.Context, id, title, slug, summary, body string) (*model.Theory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Title, t.Slug, t.Summary, t.Body = title, slug, summary, body
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (m *memTheories) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// memComments is an in-memory CommentStore.
type memComments struct {
	mu    sync.Mutex
	items map[string]*model.Comment
}

func newMemComments() *memComments { return &memComments{items: map[string]*model.Comment{}} }

func (m *memComments) Add(_ context.Context, cm *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cm.ID = primitive.NewObjectID()
	cm.CreatedAt = time.Now().UTC()
	m.items[cm.ID.Hex()] = cm
	return nil
}

func (m *memComments) ListByTheory(_ context.Context, theoryID string) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Comment{}
	for _, cm := range m.items {
		if cm.TheoryID.Hex() == theoryID {
			out = append(out, *cm)
		}
	}
	return out, nil
}

func (m *memComments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memComments) DeleteByTheory(_ context.Context, theoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cm := range m.items {
		if cm.TheoryID.Hex() == theoryID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memComments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// testApp wires the full pipeline plus all routes against in-memory stores,
// mirroring the production router.
type testApp struct {
	e        *echo.Echo
	users    *memUsers
	theories *memTheories
	comments *memComments
	sessions session.Store
}

func newTestApp() *testApp {
	users := newMemUsers()
	theories := newMemTheories()
	comments := newMemComments()
	sessions := session.NewMemoryStore(time.Hour)

	cfg := config.Config{BcryptCost: bcrypt.MinCost, SessionTTLMin: 60}
	authH := NewAuthHandler(cfg, users, sessions)
	theoryH := &TheoryHandler{Theories: theories, Comments: comments} // no broker in tests

	e := echo.New()
	e.Use(middleware.ResolveSession(sessions))
	e.Use(middleware.LoadCurrentUser(users, sessions))

	e.POST("/v1/auth/register", authH.Register)
	e.POST("/v1/auth/login", authH.Login)
	e.POST("/v1/auth/logout", authH.Logout)

	me := e.Group("/v1")
	me.Use(middleware.RequireAuth(middleware.LoginPath))
	me.GET("/me", authH.Me)

	pub := e.Group("/v1")
	pub.GET("/theories", theoryH.List)
	pub.GET("/theories/:id", theoryH.Get)
	pub.GET("/theories/:id/comments", theoryH.ListComments)

	adm := e.Group("/v1")
	adm.Use(middleware.RequireAuth(middleware.LoginPath))
	adm.Use(middleware.RequireRole(model.RoleAdmin))
	adm.POST("/theories", theoryH.Create)
	adm.PUT("/theories/:id", theoryH.Update)
	adm.DELETE("/theories/:id", theoryH.Delete)
	adm.POST("/theories/:id/comments", theoryH.AddComment)
	adm.DELETE("/comments/:id", theoryH.DeleteComment)

	return &testApp{e: e, users: users, theories: theories, comments: comments, sessions: sessions}
}

// do performs a JSON request, optionally with a session cookie.
func (a *testApp) do(method, path, body, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// loginAs provisions a user with the given role and opens a session for it.
func (a *testApp) loginAs(t *testing.T, email, role string) (*model.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Email: email, DisplayName: "Tester", PasswordHash: string(hash), Role: role}
	require.NoError(t, a.users.Create(context.Background(), u))
	sid, err := a.sessions.Create(context.Background(), u.ID.Hex(), u.Role)
	require.NoError(t, err)
	return u, sid
}
