package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid bootstrap token")
)

// Session is the identity service's view of a signed-in subject.
type Session struct {
	SubjectID string
	Email     string
	Anonymous bool
}

// IdentityService wraps identity concerns: anonymous visitor subjects,
// bootstrap-token exchange, and email/password sign-in against the admin_users
// table. The current session is observable; subscribers are invoked on every
// sign-in and sign-out.
type IdentityService struct {
	db             *gorm.DB // nil when no backend is configured
	bootstrapToken string

	mu          sync.Mutex
	current     *Session
	subscribers []func(*Session)
}

func NewIdentityService(db *gorm.DB, bootstrapToken string) *IdentityService {
	return &IdentityService{db: db, bootstrapToken: bootstrapToken}
}

// SupportsPassword reports whether email/password sign-in is available.
// Decided once at startup by whether an identity backend exists; callers must
// not probe per call.
func (s *IdentityService) SupportsPassword() bool {
	return s.db != nil
}

// AnonymousSubject mints an opaque subject id for an unauthenticated
// visitor without touching the current session.
func (s *IdentityService) AnonymousSubject() string {
	return uuid.NewString()
}

// SignInAnonymous issues a fresh anonymous subject and makes it current.
func (s *IdentityService) SignInAnonymous() *Session {
	sess := &Session{SubjectID: uuid.NewString(), Anonymous: true}
	s.setCurrent(sess)
	return sess
}

// SignInWithToken exchanges the configured bootstrap token for a session.
func (s *IdentityService) SignInWithToken(token string) (*Session, error) {
	if s.bootstrapToken == "" || token != s.bootstrapToken {
		return nil, ErrInvalidToken
	}
	sess := &Session{SubjectID: "bootstrap-" + uuid.NewString()}
	s.setCurrent(sess)
	return sess, nil
}

// SignInWithPassword verifies email/password against the admin_users table
// and rotates the user's session token.
func (s *IdentityService) SignInWithPassword(email, password string) (*Session, error) {
	if s.db == nil {
		return nil, ErrInvalidCredentials
	}

	var admin AdminUser
	result := s.db.Where("email = ?", email).First(&admin)
	if result.Error != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := generateAuthToken()
	if err != nil {
		return nil, err
	}
	admin.SessionToken = token
	if result := s.db.Save(&admin); result.Error != nil {
		return nil, result.Error
	}

	sess := &Session{SubjectID: uuid.NewString(), Email: admin.Email}
	s.setCurrent(sess)
	return sess, nil
}

// SignOut clears the current session and any stored session token.
func (s *IdentityService) SignOut() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if s.db != nil && current != nil && current.Email != "" {
		s.db.Model(&AdminUser{}).Where("email = ?", current.Email).Update("session_token", "")
	}
	s.setCurrent(nil)
}

// CurrentSession returns the current session, or nil when signed out.
func (s *IdentityService) CurrentSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnSessionChange registers fn to be called with the new session (nil on
// sign-out) after every session change.
func (s *IdentityService) OnSessionChange(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// CreateAdminUser registers a Mode B admin account with a bcrypt password hash.
func (s *IdentityService) CreateAdminUser(email, password string) (*AdminUser, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := AdminUser{Email: email, PasswordHash: hash}
	if result := s.db.Create(&admin); result.Error != nil {
		return nil, result.Error
	}
	return &admin, nil
}

func (s *IdentityService) setCurrent(sess *Session) {
	s.mu.Lock()
	s.current = sess
	subs := make([]func(*Session), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

func generateAuthToken() (string, error) {
	const tokenLength = 32
	tokenBytes := make([]byte, tokenLength)
	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}
