package handler

import (
	"context"

	"client-gate/internal/domain"
)

// fakeProvider implements domain.IdentityProvider for handler tests.
type fakeProvider struct {
	identity    *domain.Identity
	verifyErr   error
	signInToken string
	signInErr   error
	createUID   string
	createErr   error
	deleteErr   error
	resetErr    error
}

func (f *fakeProvider) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.identity, nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*domain.Identity, string, error) {
	if f.signInErr != nil {
		return nil, "", f.signInErr
	}
	return f.identity, f.signInToken, nil
}

func (f *fakeProvider) CreateIdentity(_ context.Context, email, password, displayName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createUID, nil
}

func (f *fakeProvider) DeleteIdentity(_ context.Context, uid string) error { return f.deleteErr }

func (f *fakeProvider) SendPasswordReset(_ context.Context, email string) error { return f.resetErr }

// fakeDirectory implements domain.DirectoryStore for handler tests.
type fakeDirectory struct {
	users   map[string]*domain.DirectoryUser
	clients map[string]*domain.Client
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:   make(map[string]*domain.DirectoryUser),
		clients: make(map[string]*domain.Client),
	}
}

func (f *fakeDirectory) GetUser(_ context.Context, uid string) (*domain.DirectoryUser, error) {
	user, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeDirectory) GetUserByEmail(_ context.Context, email string) (*domain.DirectoryUser, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDirectory) PutUser(_ context.Context, user *domain.DirectoryUser) error {
	f.users[user.UID] = user
	return nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, uid string) error {
	if _, ok := f.users[uid]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, uid)
	return nil
}

func (f *fakeDirectory) ListClientUsers(_ context.Context, clientID string) ([]*domain.DirectoryUser, error) {
	var out []*domain.DirectoryUser
	for _, user := range f.users {
		if !user.IsAdmin && user.ClientID != nil && *user.ClientID == clientID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeDirectory) ListAdmins(_ context.Context) ([]*domain.DirectoryUser, error) {
	var out []*domain.DirectoryUser
	for _, user := range f.users {
		if user.IsAdmin {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeDirectory) CountUsers(_ context.Context, clientID string) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.IsAdmin {
			continue
		}
		if clientID == "" || (user.ClientID != nil && *user.ClientID == clientID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeDirectory) CreateClient(_ context.Context, name string) (*domain.Client, error) {
	client := &domain.Client{ID: "client-" + name, Name: name}
	f.clients[client.ID] = client
	return client, nil
}

func (f *fakeDirectory) GetClient(_ context.Context, id string) (*domain.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (f *fakeDirectory) ListClients(_ context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(f.clients))
	for _, client := range f.clients {
		out = append(out, client)
	}
	return out, nil
}

func (f *fakeDirectory) DeleteClient(_ context.Context, id string) error {
	if _, ok := f.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.clients, id)
	return nil
}

// fakeIssuer implements domain.TokenIssuer for handler tests.
type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) IssueBackendToken(user domain.SessionUser, sessionID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}
