package usecase

import (
	"context"

	"client-gate/internal/domain"
)

// mockProvider implements domain.IdentityProvider for testing.
type mockProvider struct {
	verifyIdentity *domain.Identity
	verifyErr      error
	verifiedToken  string

	signInIdentity *domain.Identity
	signInToken    string
	signInErr      error

	createUID      string
	createErr      error
	createdEmail   string
	createdName    string

	deleteErr   error
	deletedUIDs []string

	resetErr    error
	resetEmails []string
}

func (m *mockProvider) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	m.verifiedToken = token
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyIdentity, nil
}

func (m *mockProvider) SignIn(_ context.Context, email, password string) (*domain.Identity, string, error) {
	if m.signInErr != nil {
		return nil, "", m.signInErr
	}
	return m.signInIdentity, m.signInToken, nil
}

func (m *mockProvider) CreateIdentity(_ context.Context, email, password, displayName string) (string, error) {
	m.createdEmail = email
	m.createdName = displayName
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.createUID, nil
}

func (m *mockProvider) DeleteIdentity(_ context.Context, uid string) error {
	m.deletedUIDs = append(m.deletedUIDs, uid)
	return m.deleteErr
}

func (m *mockProvider) SendPasswordReset(_ context.Context, email string) error {
	m.resetEmails = append(m.resetEmails, email)
	return m.resetErr
}

// mockDirectory implements domain.DirectoryStore for testing.
type mockDirectory struct {
	users   map[string]*domain.DirectoryUser
	clients map[string]*domain.Client

	getUserErr    error
	putUserErr    error
	deleteUserErr error
	listErr       error
	countErr      error

	clientUsers  []*domain.DirectoryUser
	admins       []*domain.DirectoryUser
	userCount    int64
	deletedUsers []string
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		users:   make(map[string]*domain.DirectoryUser),
		clients: make(map[string]*domain.Client),
	}
}

func (m *mockDirectory) GetUser(_ context.Context, uid string) (*domain.DirectoryUser, error) {
	if m.getUserErr != nil {
		return nil, m.getUserErr
	}
	user, ok := m.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockDirectory) GetUserByEmail(_ context.Context, email string) (*domain.DirectoryUser, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDirectory) PutUser(_ context.Context, user *domain.DirectoryUser) error {
	if m.putUserErr != nil {
		return m.putUserErr
	}
	m.users[user.UID] = user
	return nil
}

func (m *mockDirectory) DeleteUser(_ context.Context, uid string) error {
	m.deletedUsers = append(m.deletedUsers, uid)
	if m.deleteUserErr != nil {
		return m.deleteUserErr
	}
	if _, ok := m.users[uid]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, uid)
	return nil
}

func (m *mockDirectory) ListClientUsers(_ context.Context, clientID string) ([]*domain.DirectoryUser, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.clientUsers, nil
}

func (m *mockDirectory) ListAdmins(_ context.Context) ([]*domain.DirectoryUser, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.admins, nil
}

func (m *mockDirectory) CountUsers(_ context.Context, clientID string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.userCount, nil
}

func (m *mockDirectory) CreateClient(_ context.Context, name string) (*domain.Client, error) {
	client := &domain.Client{ID: "client-" + name, Name: name}
	m.clients[client.ID] = client
	return client, nil
}

func (m *mockDirectory) GetClient(_ context.Context, id string) (*domain.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (m *mockDirectory) ListClients(_ context.Context) ([]*domain.Client, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Client, 0, len(m.clients))
	for _, client := range m.clients {
		out = append(out, client)
	}
	return out, nil
}

func (m *mockDirectory) DeleteClient(_ context.Context, id string) error {
	if _, ok := m.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

// mockSessions implements domain.SessionStore for testing.
type mockSessions struct {
	store map[string]*domain.Session

	getErr    error
	putErr    error
	deleteErr error

	purgedUIDs []string
}

func newMockSessions() *mockSessions {
	return &mockSessions{store: make(map[string]*domain.Session)}
}

func (m *mockSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	sess, ok := m.store[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (m *mockSessions) Put(_ context.Context, sess *domain.Session) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.store[sess.ID] = sess
	return nil
}

func (m *mockSessions) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.store, id)
	return nil
}

func (m *mockSessions) DeleteByUID(_ context.Context, uid string) error {
	m.purgedUIDs = append(m.purgedUIDs, uid)
	for id, sess := range m.store {
		if sess.User.UID() == uid {
			delete(m.store, id)
		}
	}
	return nil
}

// mockIssuer implements domain.TokenIssuer for testing.
type mockIssuer struct {
	token string
	err   error
}

func (m *mockIssuer) IssueBackendToken(user domain.SessionUser, sessionID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}
