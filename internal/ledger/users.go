package ledger

import (
	"context"
	"fmt"
	"strings"

	"bodegabaratote/backend/internal/domain"
)

// User id 1 is the primary administrator: it can never be deleted and
// its role can never change.
const protectedUserID = 1

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleStockist
}

// Credential returns the stored user including the password field, for
// the auth layer only. Every other read path blanks passwords.
func (l *Ledger) Credential(username string) (domain.User, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, u := range l.state.Users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return domain.User{}, false
}

// SetUserPassword overwrites the stored password verbatim. Callers hash
// first; the ledger never sees which scheme is in use.
func (l *Ledger) SetUserPassword(ctx context.Context, id int64, password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Users {
		if l.state.Users[i].ID == id {
			l.state.Users[i].Password = password
			l.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (l *Ledger) ListUsers() []domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.User, 0, len(l.state.Users))
	for _, u := range l.state.Users {
		u.Password = ""
		out = append(out, u)
	}
	return out
}

// UsersWithSecrets exposes stored credentials for the auth bootstrap.
func (l *Ledger) UsersWithSecrets() []domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.User, len(l.state.Users))
	copy(out, l.state.Users)
	return out
}

func (l *Ledger) AddUser(ctx context.Context, req domain.UserCreateRequest) (domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if req.Password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	role := req.Role
	if role == "" {
		role = domain.RoleStockist
	}
	if !validRole(role) {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		nombre = username
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var nextID int64 = 1
	for _, u := range l.state.Users {
		if strings.EqualFold(u.Username, username) {
			return domain.User{}, fmt.Errorf("%w: username taken", ErrInvalidInput)
		}
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}

	user := domain.User{
		ID:       nextID,
		Username: username,
		Password: req.Password,
		Role:     role,
		Nombre:   nombre,
	}
	l.state.Users = append(l.state.Users, user)
	l.persist(ctx)

	user.Password = ""
	return user, nil
}

func (l *Ledger) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var user *domain.User
	for i := range l.state.Users {
		if l.state.Users[i].ID == id {
			user = &l.state.Users[i]
			break
		}
	}
	if user == nil {
		return domain.User{}, ErrNotFound
	}

	updated := *user

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return domain.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
		}
		for _, other := range l.state.Users {
			if other.ID != id && strings.EqualFold(other.Username, username) {
				return domain.User{}, fmt.Errorf("%w: username taken", ErrInvalidInput)
			}
		}
		updated.Username = username
	}
	if patch.Role != nil {
		if !validRole(*patch.Role) {
			return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *patch.Role)
		}
		if id == protectedUserID && *patch.Role != updated.Role {
			return domain.User{}, ErrProtectedUser
		}
		updated.Role = *patch.Role
	}
	if patch.Nombre != nil {
		updated.Nombre = strings.TrimSpace(*patch.Nombre)
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return domain.User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
		}
		updated.Password = *patch.Password
	}

	*user = updated
	l.persist(ctx)

	updated.Password = ""
	return updated, nil
}

func (l *Ledger) DeleteUser(ctx context.Context, id int64) error {
	if id == protectedUserID {
		return ErrProtectedUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Users {
		if l.state.Users[i].ID == id {
			l.state.Users = append(l.state.Users[:i], l.state.Users[i+1:]...)
			l.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

// ToggleUserRole flips a user between admin and almacenista.
func (l *Ledger) ToggleUserRole(ctx context.Context, id int64) (domain.User, error) {
	if id == protectedUserID {
		return domain.User{}, ErrProtectedUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Users {
		if l.state.Users[i].ID != id {
			continue
		}
		if l.state.Users[i].Role == domain.RoleAdmin {
			l.state.Users[i].Role = domain.RoleStockist
		} else {
			l.state.Users[i].Role = domain.RoleAdmin
		}
		l.persist(ctx)

		out := l.state.Users[i]
		out.Password = ""
		return out, nil
	}
	return domain.User{}, ErrNotFound
}
