package session

import (
	"context"
	"sync"

	"github.com/darasa/darasa-client/core"
)

type (
	// API is the slice of the remote REST API this store drives.
	API interface {
		Register(ctx context.Context, data RegisterData) (AuthResponse, error)
		Login(ctx context.Context, data LoginData) (AuthResponse, error)
		Refresh(ctx context.Context) (AuthResponse, error)
		Logout(ctx context.Context) error
		UpgradeToInstructor(ctx context.Context) (AuthResponse, error)
		CurrentUser(ctx context.Context) (User, error)
	}

	Service struct {
		api   API
		roles ActiveRoleStore
		log   core.Logger

		mu       sync.Mutex
		state    State
		initOnce sync.Once
	}
)

func NewService(api API, roles ActiveRoleStore, log core.Logger) *Service {
	svc := &Service{api: api, roles: roles, log: log}
	if role, err := roles.Load(); err == nil {
		svc.state.ActiveRole = role
	} else {
		svc.state.ActiveRole = RoleStudent
		log.Warn("session: loading persisted active role failed", err)
	}
	return svc
}

// State returns a snapshot; mutating it has no effect on the store.
func (svc *Service) State() State {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.snapshot()
}

func (svc *Service) snapshot() State {
	st := svc.state
	if svc.state.User != nil {
		usr := *svc.state.User
		usr.Roles = append([]Role(nil), svc.state.User.Roles...)
		st.User = &usr
	}
	return st
}

func (svc *Service) begin() {
	svc.mu.Lock()
	svc.state.IsLoading = true
	svc.state.Error = ""
	svc.mu.Unlock()
}

// applyAuth installs a successful auth payload and reconciles the active
// role against the new grant set. Caller must hold the lock.
func (svc *Service) applyAuth(res AuthResponse, message string) {
	usr := res.User
	svc.state.User = &usr
	svc.state.AccessToken = res.AccessToken
	svc.state.IsAuthenticated = true
	svc.state.IsLoading = false
	svc.state.Error = ""
	svc.state.Message = message

	switch {
	case usr.IsAdmin():
		svc.state.ActiveRole = RoleAdmin
	default:
		if _, err := NewActiveRole(svc.state.ActiveRole, usr.Roles); err != nil {
			svc.state.ActiveRole = RoleStudent
		}
	}
}

// clearAuth drops credentials and identity. Caller must hold the lock.
func (svc *Service) clearAuth() {
	svc.state.User = nil
	svc.state.AccessToken = ""
	svc.state.IsAuthenticated = false
}

func (svc *Service) fail(msg string) {
	svc.state.IsLoading = false
	svc.state.Error = msg
	svc.state.Message = ""
}

func (svc *Service) Register(ctx context.Context, data RegisterData) error {
	if err := data.Validate(); err != nil {
		svc.mu.Lock()
		svc.fail(core.ErrorMessage(err, "Registration failed"))
		svc.mu.Unlock()
		return err
	}

	svc.begin()
	res, err := svc.api.Register(ctx, data)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.clearAuth()
		svc.fail(core.ErrorMessage(err, "Registration failed"))
		return err
	}
	svc.applyAuth(res, "Registration successful")
	return nil
}

func (svc *Service) Login(ctx context.Context, data LoginData) error {
	if err := data.Validate(); err != nil {
		svc.mu.Lock()
		svc.fail(core.ErrorMessage(err, "Login failed"))
		svc.mu.Unlock()
		return err
	}

	svc.begin()
	res, err := svc.api.Login(ctx, data)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.clearAuth()
		svc.fail(core.ErrorMessage(err, "Login failed"))
		return err
	}
	svc.applyAuth(res, "Login successful")
	return nil
}

// Initialize attempts to resume a prior session. It runs the refresh call at
// most once for the process lifetime; repeated triggers are no-ops. Nothing
// role-gated should render until IsInitialized is true.
func (svc *Service) Initialize(ctx context.Context) {
	svc.initOnce.Do(func() {
		svc.begin()
		res, err := svc.api.Refresh(ctx)

		svc.mu.Lock()
		defer svc.mu.Unlock()
		defer func() { svc.state.IsInitialized = true }()

		if err != nil {
			svc.clearAuth()
			svc.state.IsLoading = false
			svc.state.Message = ""
			// no prior session is the expected cold-start case; stay silent
			if core.IsAuthentication(err) || core.IsAuthorization(err) || core.IsValidation(err) {
				svc.state.Error = ""
			} else {
				svc.state.Error = "Session refresh failed"
				svc.log.Warn("session: refresh failed", err)
			}
			return
		}
		svc.applyAuth(res, "Session restored")
	})
}

// Logout ends the server-side session and always clears local state, even
// when the network call fails; a dead token must not trap the user in an
// authenticated-looking shell.
func (svc *Service) Logout(ctx context.Context) error {
	svc.begin()
	err := svc.api.Logout(ctx)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.clearAuth()
	svc.state.IsLoading = false
	if err != nil {
		svc.state.Error = core.ErrorMessage(err, "Logout failed")
		svc.state.Message = ""
		return err
	}
	svc.state.Error = ""
	svc.state.Message = "Logout successful"
	return nil
}

// SetActiveRole switches the dashboard view. It reports whether the state
// changed: unknown or ungranted roles are rejected, and an admin's view is
// not switchable at all.
func (svc *Service) SetActiveRole(role Role) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state.User == nil || svc.state.User.IsAdmin() {
		return false
	}
	ar, err := NewActiveRole(role, svc.state.User.Roles)
	if err != nil {
		return false
	}
	if svc.state.ActiveRole == ar.Role() {
		return false
	}
	svc.state.ActiveRole = ar.Role()
	if err := svc.roles.Save(ar.Role()); err != nil {
		svc.log.Warn("session: persisting active role failed", err)
	}
	return true
}

// UpgradeToInstructor adds the instructor grant to the current account and
// switches the dashboard to it.
func (svc *Service) UpgradeToInstructor(ctx context.Context) error {
	svc.begin()
	res, err := svc.api.UpgradeToInstructor(ctx)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err != nil {
		svc.fail(core.ErrorMessage(err, "Upgrade failed"))
		return err
	}
	svc.applyAuth(res, "You are now an instructor")
	svc.state.ActiveRole = RoleInstructor
	if err := svc.roles.Save(RoleInstructor); err != nil {
		svc.log.Warn("session: persisting active role failed", err)
	}
	return nil
}

// RefreshUser re-fetches the current identity without touching credentials.
func (svc *Service) RefreshUser(ctx context.Context) error {
	svc.begin()
	usr, err := svc.api.CurrentUser(ctx)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsLoading = false
	if err != nil {
		svc.state.Error = core.ErrorMessage(err, "Failed to fetch profile")
		return err
	}
	svc.state.User = &usr
	return nil
}

// ResetStatus clears transient flags before the next user-initiated attempt.
func (svc *Service) ResetStatus() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.IsLoading = false
	svc.state.Error = ""
	svc.state.Message = ""
}

// Credential hooks used by the HTTP gateway.

func (svc *Service) AccessToken() string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.state.AccessToken
}

func (svc *Service) SetAccessToken(token string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.state.AccessToken = token
}

// Clear drops the session after an unrecoverable credential failure.
func (svc *Service) Clear() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.clearAuth()
	svc.state.IsLoading = false
	svc.state.Message = ""
}
