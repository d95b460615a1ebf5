package identity

import (
	"fmt"
	"strings"
	"sync"

	"minitemu/internal/models"
)

// Registry owns every account for the lifetime of the process.
// Accounts are kept in registration order and indexed by username.
type Registry struct {
	mu    sync.RWMutex
	users []Identity
	index map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register creates a customer or seller. Usernames are unique across roles.
func (r *Registry) Register(username, password string, role models.Role) (Identity, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.index[username]; taken {
		return nil, fmt.Errorf("%w: %q", models.ErrDuplicateUsername, username)
	}

	var id Identity
	switch role {
	case models.RoleCustomer:
		id = NewCustomer(username, password)
	case models.RoleSeller:
		id = NewSeller(username, password)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}

	r.index[username] = len(r.users)
	r.users = append(r.users, id)
	return id, nil
}

// Authenticate scans the registry for an exact username and password match
func (r *Registry) Authenticate(username, password string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username() == username && u.checkPassword(password) {
			return u, nil
		}
	}
	return nil, models.ErrAuthentication
}

// Lookup finds an account by username
func (r *Registry) Lookup(username string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[username]
	if !ok {
		return nil, fmt.Errorf("%w: user %q", models.ErrNotFound, username)
	}
	return r.users[i], nil
}

// Len returns the number of registered accounts
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
