package repository

import "strings"

type Admin struct {
	Email        string
	PasswordHash string
}

type AdminAuthRepository interface {
	GetByEmail(email string) (*Admin, error)
}

// staticAdminRepository serves the single admin account defined in configuration.
type staticAdminRepository struct {
	admin *Admin
}

func NewStaticAdminRepository(email, passwordHash string) AdminAuthRepository {
	if email == "" || passwordHash == "" {
		return &staticAdminRepository{}
	}
	return &staticAdminRepository{admin: &Admin{Email: email, PasswordHash: passwordHash}}
}

// GetByEmail returns nil, nil when no admin matches.
func (r *staticAdminRepository) GetByEmail(email string) (*Admin, error) {
	if r.admin == nil || !strings.EqualFold(strings.TrimSpace(email), r.admin.Email) {
		return nil, nil
	}
	return r.admin, nil
}
