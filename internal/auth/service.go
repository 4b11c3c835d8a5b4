package auth

import (
	"errors"
	"time"

	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/repository"
)

// ErrUserExists is returned by Register when the email is already taken.
var ErrUserExists = errors.New("user already exists")

// UserRepo defines the persistence methods the auth service needs,
// matching repository.UserRepository.
type UserRepo interface {
	Save(u *domain.User) (int64, error)
	FindByEmail(email string) (*domain.User, error)
	FindBySessionID(sessionID string, now time.Time) (*domain.User, error)
	UpdateSession(userID int64, sessionID string, expiry time.Time) error
	ClearSessionBySessionID(sessionID string) error
}

type Service struct {
	Users UserRepo
}

func NewService(users UserRepo) *Service {
	return &Service{Users: users}
}

// Register creates a new user with a salted password hash. The email
// uniqueness check runs before the insert; the database constraint is
// the backstop under concurrent registration, so a constraint violation
// also maps to ErrUserExists.
func (s *Service) Register(email, name, password, plan string) (*domain.User, error) {
	existing, err := s.Users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Plan:     plan,
	}
	id, err := s.Users.Save(u)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	u.ID = id
	return u, nil
}

// Authenticate looks up the user by email exactly as stored and checks
// the password. Unknown email and wrong password both return (nil, nil)
// so the caller cannot distinguish the two cases.
func (s *Service) Authenticate(email, password string) (*domain.User, error) {
	u, err := s.Users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	if !VerifyPassword(u.Password, password) {
		return nil, nil
	}
	return u, nil
}
