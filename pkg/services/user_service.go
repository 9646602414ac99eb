package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"goalgg/pkg/cache"
	"goalgg/pkg/models"
	"goalgg/pkg/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrPhoneTaken       = errors.New("phone number already registered")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrRoleChangeDenied = errors.New("role change not allowed with current owned clubs")
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Owned-club ceiling per target role: downgrading below what the user
// already owns is rejected.
var roleClubCeiling = map[int]int{
	models.RoleUser:    0,
	models.RoleSilver:  1,
	models.RoleGold:    3,
	models.RolePremium: 5,
}

type UserService interface {
	Register(req models.RegisterRequest) (models.User, error)
	Login(email, password string) (models.User, error)
	List(skip, limit int) ([]models.User, error)
	Get(id int) (models.User, error)
	ChangeRole(userID, newRoleID int) (models.User, error)
	UpdateLocation(userID int, lat, lng float64) error
}

type userService struct {
	repo  repository.UserRepository
	redis *cache.Redis
}

func NewUserService(repo repository.UserRepository, redis *cache.Redis) UserService {
	return &userService{repo: repo, redis: redis}
}

func (s *userService) Register(req models.RegisterRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return models.User{}, ErrInvalidEmail
	}

	if taken, err := s.repo.EmailExists(email); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, ErrEmailTaken
	}

	if req.Phone.Number != nil && *req.Phone.Number != "" {
		if taken, err := s.repo.PhoneExists(*req.Phone.Number); err != nil {
			return models.User{}, err
		} else if taken {
			return models.User{}, ErrPhoneTaken
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		Password:      string(hashed),
		Phone:         req.Phone,
		YearOfBirth:   req.YearOfBirth,
		City:          req.City,
		Country:       req.Country,
		SportCategory: req.SportCategory,
		Positions:     req.Positions,
		RoleID:        models.RoleUser,
	}
	if err := s.repo.Create(&user); err != nil {
		return models.User{}, err
	}

	s.redis.DelPattern("users:*")
	log.Printf("[USERS] registered %s (id=%d)", user.Email, user.ID)
	return user, nil
}

func (s *userService) Login(email, password string) (models.User, error) {
	user, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, ErrInvalidPassword
	}
	return user, nil
}

func (s *userService) List(skip, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	cacheKey := fmt.Sprintf("users:list:%d:%d", skip, limit)
	var cached []models.User
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	users, err := s.repo.List(skip, limit)
	if err != nil {
		return nil, err
	}

	s.redis.Set(cacheKey, users, 30*time.Second)
	return users, nil
}

func (s *userService) Get(id int) (models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) ChangeRole(userID, newRoleID int) (models.User, error) {
	owned, err := s.repo.OwnedClubCount(userID)
	if err != nil {
		return models.User{}, err
	}

	if ceiling, ok := roleClubCeiling[newRoleID]; ok && owned > ceiling {
		return models.User{}, ErrRoleChangeDenied
	}

	if err := s.repo.UpdateRole(userID, newRoleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	s.redis.DelPattern("users:*")
	log.Printf("[USERS] role changed user=%d role=%d", userID, newRoleID)
	return s.Get(userID)
}

func (s *userService) UpdateLocation(userID int, lat, lng float64) error {
	if err := s.repo.UpdateLocation(userID, lat, lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
