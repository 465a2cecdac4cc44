package services

import (
	"context"
	"strings"

	"tableorder/entity"
	"tableorder/repository"

	"gorm.io/gorm"
)

type StaffService struct {
	DB   *gorm.DB
	Repo *repository.StaffRepository
}

func NewStaffService(db *gorm.DB, repo *repository.StaffRepository) *StaffService {
	return &StaffService{DB: db, Repo: repo}
}

type CreateStaffReq struct {
	Username    string      `json:"username" binding:"required"`
	Password    string      `json:"password" binding:"required"`
	Role        entity.Role `json:"role"`
	Permissions []string    `json:"permissions"`
}

type UpdateStaffReq struct {
	Username    *string      `json:"username"`
	Password    *string      `json:"password"`
	Role        *entity.Role `json:"role"`
	Permissions []string     `json:"permissions"`
	IsActive    *bool        `json:"isActive"`
}

func (s *StaffService) List(ctx context.Context) ([]entity.Staff, error) {
	return s.Repo.List(ctx)
}

func (s *StaffService) Create(ctx context.Context, req *CreateStaffReq) (*entity.Staff, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateCredentials(username, req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if !role.Valid() {
		return nil, Invalid("invalid role: %s", role)
	}
	taken, err := s.Repo.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Invalid("username already exists")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	perms := req.Permissions
	if perms == nil {
		perms = []string{}
	}
	st := &entity.Staff{Username: username, Password: hash, Role: role, Permissions: perms, IsActive: true}
	if err := s.Repo.Create(s.DB.WithContext(ctx), st); err != nil {
		return nil, err
	}
	return st, nil
}

// Update applies the non-nil fields of req. Staff may not deactivate their
// own account or change their own role.
func (s *StaffService) Update(ctx context.Context, actorID, id uint, req *UpdateStaffReq) (*entity.Staff, error) {
	st, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "staff member")
	}
	if actorID == st.ID {
		if req.IsActive != nil && !*req.IsActive {
			return nil, Invalid("cannot deactivate your own account")
		}
		if req.Role != nil && *req.Role != st.Role {
			return nil, Invalid("cannot change your own role")
		}
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, Invalid("username is required")
		}
		taken, err := s.Repo.UsernameTaken(ctx, username, st.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, Invalid("username already exists")
		}
		st.Username = username
	}
	if req.Password != nil {
		if err := validateCredentials(st.Username, *req.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		st.Password = hash
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, Invalid("invalid role: %s", *req.Role)
		}
		st.Role = *req.Role
	}
	if req.Permissions != nil {
		st.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.Repo.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a staff member; nobody may delete their own account.
func (s *StaffService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return Invalid("cannot delete your own account")
	}
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("staff member not found")
	}
	return nil
}
