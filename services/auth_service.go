package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableorder/entity"
	"tableorder/repository"
	"tableorder/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB     *gorm.DB
	Repo   *repository.StaffRepository
	Secret string
	TTL    time.Duration
}

func NewAuthService(db *gorm.DB, repo *repository.StaffRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Repo: repo, Secret: secret, TTL: ttl}
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Staff     *entity.Staff `json:"admin"`
}

// Login checks the credentials of an active staff member and issues a token.
func (s *AuthService) Login(ctx context.Context, req *LoginReq) (*Session, error) {
	staff, err := s.Repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		return nil, Unauthorized("invalid credentials")
	}
	if !staff.IsActive {
		return nil, Unauthorized("account is deactivated")
	}

	now := time.Now()
	if err := s.Repo.TouchLogin(ctx, staff.ID, now); err != nil {
		return nil, err
	}
	staff.LastLogin = &now

	token, exp, err := utils.GenerateToken(staff, s.Secret, s.TTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, Staff: staff}, nil
}

// Authenticate resolves a bearer token to an active staff record.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.Staff, error) {
	if token == "" {
		return nil, Unauthorized("no token, authorization denied")
	}
	claims, err := utils.ParseToken(token, s.Secret)
	if err != nil {
		return nil, Unauthorized("token is not valid")
	}
	staff, err := s.Repo.FindByID(ctx, claims.StaffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Unauthorized("token is not valid")
	}
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, Unauthorized("token is not valid")
	}
	return staff, nil
}

type SetupReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Setup creates the first admin. It only succeeds while no staff exist.
func (s *AuthService) Setup(ctx context.Context, req *SetupReq) (*entity.Staff, error) {
	var admin *entity.Staff
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.Count(tx)
		if err != nil {
			return err
		}
		if n > 0 {
			return Invalid("admin already exists")
		}
		username := strings.TrimSpace(req.Username)
		if err := validateCredentials(username, req.Password); err != nil {
			return err
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		admin = &entity.Staff{
			Username:    username,
			Password:    hash,
			Role:        entity.RoleAdmin,
			Permissions: entity.AllPermissions,
			IsActive:    true,
		}
		return s.Repo.Create(tx, admin)
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// minPasswordLen is the shortest password accepted for staff accounts.
const minPasswordLen = 6

func validateCredentials(username, password string) error {
	if username == "" {
		return Invalid("username is required")
	}
	if len(password) < minPasswordLen {
		return Invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func hashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}
