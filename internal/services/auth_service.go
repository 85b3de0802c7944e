package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

// TokenIssuer is satisfied by *security.TokenManager.
type TokenIssuer interface {
	Issue(subject, role, email string) (string, time.Time, error)
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SignupInput struct {
	RollNumber string
	Email      string
	Password   string
	Name       string
}

type AuthService interface {
	StudentSignup(ctx context.Context, in SignupInput) (*AccessToken, error)
	// StudentSignin accepts an email or a roll number as identifier.
	StudentSignin(ctx context.Context, identifier, password string) (*AccessToken, error)
	AdminLogin(ctx context.Context, email, password string) (*AccessToken, error)
	EnsureAdmin(ctx context.Context, email, password, name string) (created bool, err error)
}

type authService struct {
	students      pgrepo.StudentRepository
	admins        pgrepo.AdminRepository
	studentTokens TokenIssuer
	adminTokens   TokenIssuer
	clock         Clock
}

func NewAuthService(students pgrepo.StudentRepository, admins pgrepo.AdminRepository, studentTokens, adminTokens TokenIssuer, clock Clock) AuthService {
	return &authService{students: students, admins: admins, studentTokens: studentTokens, adminTokens: adminTokens, clock: clock}
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func NormalizeRollNumber(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func (s *authService) StudentSignup(ctx context.Context, in SignupInput) (*AccessToken, error) {
	const op = "AuthService.StudentSignup"

	email := NormalizeEmail(in.Email)
	roll := NormalizeRollNumber(in.RollNumber)
	if email == "" || roll == "" || in.Password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "rollNumber, email and password are required", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, utils.Invalid(op, "invalid request", map[string]string{"password": err.Error()})
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := s.clock.Now()
	st := &models.Student{
		ID:           uuid.NewString(),
		RollNumber:   roll,
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.students.Create(ctx, st); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email or roll number already registered", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create student", err)
	}
	return s.issue(op, s.studentTokens, st.ID, string(models.RoleStudent), st.Email)
}

func (s *authService) StudentSignin(ctx context.Context, identifier, password string) (*AccessToken, error) {
	const op = "AuthService.StudentSignin"

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "identifier and password are required", nil)
	}

	var (
		st  *models.Student
		err error
	)
	if strings.Contains(identifier, "@") {
		st, err = s.students.GetByEmail(ctx, NormalizeEmail(identifier))
	} else {
		st, err = s.students.GetByRollNumber(ctx, NormalizeRollNumber(identifier))
	}
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load student", err)
	}
	if utils.CheckPassword(st.PasswordHash, password) != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}
	if !st.IsActive {
		return nil, utils.E(utils.CodeUnauthorized, op, "account is deactivated", nil)
	}
	return s.issue(op, s.studentTokens, st.ID, string(models.RoleStudent), st.Email)
}

func (s *authService) AdminLogin(ctx context.Context, email, password string) (*AccessToken, error) {
	const op = "AuthService.AdminLogin"

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load admin", err)
	}
	if utils.CheckPassword(a.PasswordHash, password) != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}
	return s.issue(op, s.adminTokens, a.ID, string(models.RoleAdmin), a.Email)
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	const op = "AuthService.EnsureAdmin"

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, utils.ErrNotFound) {
		return false, utils.E(utils.CodeInternal, op, "failed to load admin", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	now := s.clock.Now()
	a := &models.Admin{ID: uuid.NewString(), Email: email, PasswordHash: hash, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return false, nil
		}
		return false, utils.E(utils.CodeInternal, op, "failed to create admin", err)
	}
	return true, nil
}

func (s *authService) issue(op string, issuer TokenIssuer, subject, role, email string) (*AccessToken, error) {
	tok, exp, err := issuer.Issue(subject, role, email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &AccessToken{AccessToken: tok, ExpiresAt: exp}, nil
}
