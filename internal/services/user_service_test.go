package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

type fakeUserSource struct {
	nextID          int
	usersByEmail    map[string]models.User
	usersByID       map[int]models.User
	sessions        map[int]models.Session
	lastEmailLookup string
}

func newFakeUserSource() *fakeUserSource {
	return &fakeUserSource{
		usersByEmail: make(map[string]models.User),
		usersByID:    make(map[int]models.User),
		sessions:     make(map[int]models.Session),
	}
}

func (f *fakeUserSource) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	f.nextID++
	user.ID = f.nextID
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeUserSource) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserSource) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	f.lastEmailLookup = email
	return f.usersByEmail[email], nil
}

func (f *fakeUserSource) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	user.FullName = req.FullName
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	f.usersByID[userID] = user
	f.usersByEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserSource) SetSession(ctx context.Context, userID int, session models.Session) error {
	f.sessions[userID] = session
	return nil
}

func (f *fakeUserSource) ClearSession(ctx context.Context, userID int) error {
	delete(f.sessions, userID)
	return nil
}

func (f *fakeUserSource) seedUser(t *testing.T, email, password, fullName string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := f.CreateUser(context.Background(), models.User{
		Email:    email,
		FullName: fullName,
		Password: string(hashed),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserService_SignInNormalizesEmail(t *testing.T) {
	src := newFakeUserSource()
	src.seedUser(t, "amal@example.com", "secret123", "أمل بن صالح")
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	result := svc.SignIn(context.Background(), "  Amal@Example.COM ", "secret123")
	if !result.OK() {
		t.Fatalf("sign in failed: %s", result.ErrorMessage)
	}
	if src.lastEmailLookup != "amal@example.com" {
		t.Fatalf("expected lowercased trimmed lookup, got %q", src.lastEmailLookup)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected tokens on successful sign in")
	}
	current := svc.CurrentUser()
	if current == nil || current.Email != "amal@example.com" {
		t.Fatalf("expected current identity, got %+v", current)
	}
}

func TestUserService_SignInInvalidCredentials(t *testing.T) {
	src := newFakeUserSource()
	src.seedUser(t, "amal@example.com", "secret123", "أمل بن صالح")
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "amal@example.com", "nope"},
		{"unknown email", "ghost@example.com", "secret123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.SignIn(context.Background(), tc.email, tc.password)
			if result.OK() {
				t.Fatal("expected sign in to fail")
			}
			if result.ErrorMessage != MsgInvalidCredentials {
				t.Fatalf("expected %q got %q", MsgInvalidCredentials, result.ErrorMessage)
			}
			if svc.CurrentUser() != nil {
				t.Fatal("failed sign in changed the current identity")
			}
		})
	}
}

func TestUserService_SignUpDuplicateEmail(t *testing.T) {
	src := newFakeUserSource()
	src.seedUser(t, "amal@example.com", "secret123", "أمل بن صالح")
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	result := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "AMAL@example.com",
		Password: "whatever1",
		FullName: "someone else",
	})
	if result.OK() {
		t.Fatal("expected duplicate email to fail")
	}
	if result.ErrorMessage != MsgEmailTaken {
		t.Fatalf("expected %q got %q", MsgEmailTaken, result.ErrorMessage)
	}
}

func TestUserService_SignUpCreatesProfile(t *testing.T) {
	src := newFakeUserSource()
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	result := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    " New@Example.com ",
		Password: "secret123",
		FullName: "سامي الجديد",
	})
	if !result.OK() {
		t.Fatalf("sign up failed: %s", result.ErrorMessage)
	}
	if result.User.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Password != "" {
		t.Fatal("sign up leaked the password hash")
	}

	stored := src.usersByEmail["new@example.com"]
	if stored.ID == 0 {
		t.Fatal("profile row not created")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored password does not verify: %v", err)
	}
}

func TestUserService_SessionEvents(t *testing.T) {
	src := newFakeUserSource()
	user := src.seedUser(t, "amal@example.com", "secret123", "أمل بن صالح")
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	events := svc.Subscribe()
	defer svc.Unsubscribe(events)

	result := svc.SignIn(context.Background(), "amal@example.com", "secret123")
	if !result.OK() {
		t.Fatalf("sign in failed: %s", result.ErrorMessage)
	}

	ev := <-events
	if ev.Type != AuthSignedIn || ev.UserID != user.ID {
		t.Fatalf("expected signed-in event for user %d, got %+v", user.ID, ev)
	}

	svc.SignOut(context.Background(), user.ID)
	ev = <-events
	if ev.Type != AuthSignedOut {
		t.Fatalf("expected signed-out event, got %+v", ev)
	}
	if svc.CurrentUser() != nil {
		t.Fatal("sign out kept the current identity")
	}
	if _, ok := src.sessions[user.ID]; ok {
		t.Fatal("sign out kept the stored session")
	}
}

func TestUserService_RefreshProfile(t *testing.T) {
	src := newFakeUserSource()
	user := src.seedUser(t, "amal@example.com", "secret123", "أمل بن صالح")
	svc := &UserService{UserRepo: src, SigningKey: "test-key"}

	// Without an identity it is a no-op.
	if err := svc.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("refresh without identity: %v", err)
	}

	result := svc.SignIn(context.Background(), "amal@example.com", "secret123")
	if !result.OK() {
		t.Fatalf("sign in failed: %s", result.ErrorMessage)
	}

	if _, err := src.UpdateProfile(context.Background(), user.ID, models.UpdateProfileRequest{FullName: "أمل المحدثة"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if err := svc.RefreshProfile(context.Background()); err != nil {
		t.Fatalf("refresh profile: %v", err)
	}
	current := svc.CurrentUser()
	if current == nil || current.FullName != "أمل المحدثة" {
		t.Fatalf("expected refreshed profile, got %+v", current)
	}
}
