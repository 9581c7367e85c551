package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/utils"
)

// User-facing messages, localized the way the mobile app shows them.
const (
	MsgInvalidCredentials = "بيانات تسجيل الدخول غير صحيحة"
	MsgEmailTaken         = "هذا البريد الإلكتروني مسجل مسبقاً"
	MsgGenericError       = "حدث خطأ ما، يرجى المحاولة مرة أخرى"
)

const (
	tokenTTL   = 120 * time.Minute
	sessionTTL = 24 * 30 * 2 * time.Hour
)

type AuthEventType int

const (
	AuthSignedIn AuthEventType = iota
	AuthSignedOut
)

type AuthEvent struct {
	Type   AuthEventType
	UserID int
}

// UserSource is the user-store surface the auth service needs. Satisfied by
// repositories.UserRepository and by test fakes.
type UserSource interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.User, error)
	SetSession(ctx context.Context, userID int, session models.Session) error
	ClearSession(ctx context.Context, userID int) error
}

// AuthResult is what sign-in and sign-up hand back to callers: either the
// signed-in user with tokens, or a localized message. Never both.
type AuthResult struct {
	User         models.User   `json:"user,omitempty"`
	Tokens       models.Tokens `json:"tokens,omitempty"`
	ErrorMessage string        `json:"message,omitempty"`
}

func (r AuthResult) OK() bool { return r.ErrorMessage == "" }

// UserService owns the process-wide authentication state: the current
// identity, its cached profile, and the session-change subscriptions.
type UserService struct {
	UserRepo     UserSource
	TokenManager *utils.Manager
	SigningKey   string

	mu      sync.Mutex
	current *models.User
	subs    map[chan AuthEvent]struct{}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account. The profile row is created alongside the
// credentials; a duplicate email maps to its localized message, anything else
// to the generic one.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) AuthResult {
	req.Email = normalizeEmail(req.Email)

	existing, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("sign up: email lookup failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}
	if existing.Email != "" {
		return AuthResult{ErrorMessage: MsgEmailTaken}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("sign up: hashing failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Password: string(hashed),
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return AuthResult{ErrorMessage: MsgEmailTaken}
		}
		log.Printf("sign up: create user failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}

	user.Password = ""
	return AuthResult{User: user}
}

// SignIn authenticates the normalized email against the stored hash. Wrong
// email or password both map to the invalid-credentials message and leave the
// current identity unchanged.
func (s *UserService) SignIn(ctx context.Context, email, password string) AuthResult {
	email = normalizeEmail(email)

	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Printf("sign in: email lookup failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}
	if user.Email == "" {
		return AuthResult{ErrorMessage: MsgInvalidCredentials}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResult{ErrorMessage: MsgInvalidCredentials}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: uint(user.ID),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})
	accessToken, err := token.SignedString([]byte(s.SigningKey))
	if err != nil {
		log.Printf("sign in: signing token failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}

	tokens, err := s.createSession(ctx, user.ID, accessToken)
	if err != nil {
		log.Printf("sign in: creating session failed: %v", err)
		return AuthResult{ErrorMessage: MsgGenericError}
	}

	user.Password = ""
	s.setCurrent(&user)
	s.publish(AuthEvent{Type: AuthSignedIn, UserID: user.ID})
	return AuthResult{User: user, Tokens: tokens}
}

func (s *UserService) createSession(ctx context.Context, userID int, accessToken string) (models.Tokens, error) {
	var (
		res models.Tokens
		err error
	)
	res.AccessToken = accessToken

	res.RefreshToken = uuid.New().String()
	if s.TokenManager != nil {
		res.RefreshToken, err = s.TokenManager.NewRefreshToken()
		if err != nil {
			return res, err
		}
	}

	session := models.Session{
		UserID:       userID,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(sessionTTL),
	}
	if err := s.UserRepo.SetSession(ctx, userID, session); err != nil {
		return res, err
	}
	return res, nil
}

// SignOut is best-effort: a failed backend call is logged and swallowed, the
// local identity is dropped either way.
func (s *UserService) SignOut(ctx context.Context, userID int) {
	if err := s.UserRepo.ClearSession(ctx, userID); err != nil {
		log.Printf("sign out: clearing session failed: %v", err)
	}
	s.setCurrent(nil)
	s.publish(AuthEvent{Type: AuthSignedOut, UserID: userID})
}

// RefreshProfile re-fetches the profile row for the current identity. No-op
// when nobody is signed in.
func (s *UserService) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return nil
	}

	user, err := s.UserRepo.GetUserByID(ctx, current.ID)
	if err != nil {
		return err
	}
	user.Password = ""
	s.setCurrent(&user)
	return nil
}

func (s *UserService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *UserService) setCurrent(u *models.User) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
}

// Subscribe registers a session-change listener. The returned channel is
// buffered so a slow consumer cannot stall sign-in.
func (s *UserService) Subscribe() chan AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[chan AuthEvent]struct{})
	}
	ch := make(chan AuthEvent, 8)
	s.subs[ch] = struct{}{}
	return ch
}

func (s *UserService) Unsubscribe(ch chan AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *UserService) publish(ev AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile edits the profile row and refreshes the cached identity when
// it belongs to the signed-in user.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.User, error) {
	user, err := s.UserRepo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""

	s.mu.Lock()
	if s.current != nil && s.current.ID == userID {
		u := user
		s.current = &u
	}
	s.mu.Unlock()
	return user, nil
}
