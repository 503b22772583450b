package account

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/store"
)

// Login failures share one message so callers cannot tell which part was wrong.
var (
	ErrUnknownUser = apperr.Unauthorized("Invalid credentials")
	ErrBadPassword = apperr.Unauthorized("Invalid credentials")
)

// Finder looks up one kind of account by its role-specific id.
type Finder interface {
	FindByRoleID(ctx context.Context, id int64) (*Account, error)
}

type roleFinder struct {
	store Store
	role  Role
}

func (f roleFinder) FindByRoleID(ctx context.Context, id int64) (*Account, error) {
	doc, err := f.store.FindByRoleID(ctx, f.role, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return FromDocument(f.role, doc), nil
}

// Directory resolves an id against several finders, first match wins.
type Directory struct {
	finders []Finder
}

// NewDirectory probes the store in LoginOrder.
func NewDirectory(s Store) *Directory {
	d := &Directory{}
	for _, role := range LoginOrder {
		d.finders = append(d.finders, roleFinder{store: s, role: role})
	}
	return d
}

// Resolve returns nil, nil when no finder knows the id.
func (d *Directory) Resolve(ctx context.Context, id int64) (*Account, error) {
	for _, f := range d.finders {
		acc, err := f.FindByRoleID(ctx, id)
		if err != nil {
			return nil, err
		}
		if acc != nil {
			return acc, nil
		}
	}
	return nil, nil
}

// Service implements login and profile reads.
type Service struct {
	store   Store
	dir     *Directory
	upgrade bool
}

// NewService creates a service. When upgradeLegacy is set, accounts that still
// carry a plain numeric password get a bcrypt hash after their next login.
func NewService(s Store, upgradeLegacy bool) *Service {
	return &Service{store: s, dir: NewDirectory(s), upgrade: upgradeLegacy}
}

// Authenticate checks a numeric id and password.
func (s *Service) Authenticate(ctx context.Context, userID, password int64) (*Account, error) {
	acc, err := s.dir.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve account %d: %w", userID, err)
	}
	if acc == nil {
		return nil, ErrUnknownUser
	}

	if acc.PasswordHash != "" {
		if !auth.CheckPassword(acc.PasswordHash, password) {
			return nil, ErrBadPassword
		}
		return acc, nil
	}
	if !acc.HasLegacy || acc.LegacyPass != password {
		return nil, ErrBadPassword
	}
	if s.upgrade {
		s.upgradePassword(ctx, acc, password)
	}
	return acc, nil
}

func (s *Service) upgradePassword(ctx context.Context, acc *Account, password int64) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("hash password for %s %d failed: %v", acc.Role, acc.RoleID, err)
		return
	}
	if err := s.store.SetPasswordHash(ctx, acc.Role, acc.ID, hash); err != nil {
		log.Printf("store password hash for %s %d failed: %v", acc.Role, acc.RoleID, err)
		return
	}
	acc.PasswordHash = hash
}

// Claims builds the token payload for an authenticated account.
func (a *Account) Claims() auth.Claims {
	c := auth.Claims{
		UserID: a.ID.Hex(),
		Role:   string(a.Role),
		Name:   a.Name,
		Email:  a.Email,
	}
	switch a.Role {
	case Student:
		c.RollNo = a.RoleID
	case Teacher:
		c.TeacherID = a.RoleID
	case Admin:
		c.AdminID = a.RoleID
	}
	return c
}

// Profile returns the full document of a student or teacher, minus credentials.
func (s *Service) Profile(ctx context.Context, role Role, roleID int64) (bson.M, error) {
	doc, err := s.store.FindByRoleID(ctx, role, roleID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		switch role {
		case Teacher:
			return nil, apperr.NotFound("No teacher found with TeacherId: %d", roleID)
		case Admin:
			return nil, apperr.NotFound("No admin found with AdminId: %d", roleID)
		}
		return nil, apperr.NotFound("No student found with RollNo: %d", roleID)
	}
	return Sanitize(doc), nil
}

// Details is the short profile shown in navigation bars.
type Details struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	RollNo int64  `json:"RollNo"`
}

// Details looks up the account behind a token's userId claim.
func (s *Service) Details(ctx context.Context, role Role, hexID string) (Details, error) {
	id, err := store.ParseID("userId", hexID)
	if err != nil {
		return Details{}, apperr.NotFound("User not found")
	}
	doc, err := s.store.FindByID(ctx, role, id)
	if err != nil {
		return Details{}, err
	}
	if doc == nil {
		return Details{}, apperr.NotFound("User not found")
	}
	acc := FromDocument(role, doc)
	return Details{Name: acc.Name, Email: acc.Email, RollNo: acc.RoleID}, nil
}

// List returns every account of the role without credentials. With fields,
// only those fields are returned.
func (s *Service) List(ctx context.Context, role Role, fields ...string) ([]bson.M, error) {
	docs, err := s.store.List(ctx, role, fields...)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i] = Sanitize(docs[i])
	}
	return docs, nil
}

// Count returns the number of accounts of the role.
func (s *Service) Count(ctx context.Context, role Role) (int64, error) {
	return s.store.Count(ctx, role)
}
