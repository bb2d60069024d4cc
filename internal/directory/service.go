// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/panicpal/panicpal/internal/credential"
)

// dummyPassword derives the credential verified when an email is unknown, so
// that a miss costs the same as a wrong password. The result is discarded.
const dummyPassword = "panicpal-dummy-credential"

// Service provides registration, authentication and resource lookup.
type Service struct {
	users     UserStore
	resources ResourceStore
	hasher    credential.Hasher
	logger    *slog.Logger
	now       func() time.Time
	lockout   *lockoutTracker
	dummy     credential.Credential
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for interaction timestamps and lockouts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLockout enables account lockout after repeated failed passwords.
// A disabled policy leaves attempts unlimited.
func WithLockout(policy LockoutPolicy) Option {
	return func(s *Service) {
		if policy.Enabled() {
			s.lockout = newLockoutTracker(policy)
		} else {
			s.lockout = nil
		}
	}
}

// NewService creates a new Service.
func NewService(users UserStore, resources ResourceStore, hasher credential.Hasher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user store is required")
	}
	if resources == nil {
		return nil, oops.Errorf("resource store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("credential hasher is required")
	}

	s := &Service{
		users:     users,
		resources: resources,
		hasher:    hasher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummy = hasher.DeriveWithSalt(dummyPassword, make([]byte, credential.SaltLen))
	return s, nil
}

// RegisterUser derives a credential for password and stores a new user.
// Returns DIRECTORY_EMAIL_TAKEN if the email is already registered.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*User, error) {
	start := time.Now()
	cred, err := s.hasher.Derive(password)
	recordDeriveDuration(s.hasher.Algorithm(), time.Since(start))
	if err != nil {
		recordRegistration(StatusError)
		return nil, oops.With("operation", "derive credential").Wrap(err)
	}

	user, err := NewUser(name, email, cred)
	if err != nil {
		recordRegistration(StatusError)
		return nil, oops.With("operation", "create user").Wrap(err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			recordRegistration(StatusTaken)
			s.logger.InfoContext(ctx, "registration rejected", "reason", "email_taken")
		} else {
			recordRegistration(StatusError)
		}
		return nil, oops.With("operation", "store user").Wrap(err)
	}

	recordRegistration(StatusSuccess)
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	return user.clone(), nil
}

// Authenticate returns the user registered with email if password matches.
// An unknown email and a wrong password both return AUTH_FAILED.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, lookupErr := s.users.GetUserByEmail(ctx, email)

	var target credential.Credential
	switch {
	case lookupErr == nil:
		target = user.Credential()
	case errors.Is(lookupErr, ErrNotFound):
		target = s.dummy
	default:
		recordAuthentication(OutcomeError)
		return nil, oops.With("operation", "get user by email").Wrap(lookupErr)
	}

	// Always verify so an unknown email takes as long as a wrong password.
	valid := s.hasher.Verify(target, password)

	if lookupErr != nil {
		recordAuthentication(OutcomeUserNotFound)
		s.logger.DebugContext(ctx, "authentication failed", "reason", OutcomeUserNotFound)
		return nil, authFailed()
	}

	// A locked account answers the same for every password. The lock is read
	// after verification so timing does not reveal it.
	if s.lockout != nil {
		if until, locked := s.lockout.lockedUntil(user.ID, s.now()); locked {
			recordAuthentication(OutcomeLocked)
			s.logger.WarnContext(ctx, "authentication refused, account locked",
				"user_id", user.ID.String(),
				"locked_until", until)
			return nil, oops.Code(CodeAccountLocked).
				With("locked_until", until).
				Wrap(ErrAccountLocked)
		}
	}

	if !valid {
		recordAuthentication(OutcomeInvalidCredentials)
		attrs := []any{"reason", OutcomeInvalidCredentials, "user_id", user.ID.String()}
		if s.lockout != nil {
			attrs = append(attrs, "failures", s.lockout.recordFailure(user.ID, s.now()))
		}
		s.logger.DebugContext(ctx, "authentication failed", attrs...)
		return nil, authFailed()
	}

	if s.lockout != nil {
		s.lockout.reset(user.ID)
	}

	recordAuthentication(OutcomeSuccess)
	s.logger.InfoContext(ctx, "user authenticated", "user_id", user.ID.String())
	return user, nil
}

func authFailed() error {
	return oops.Code(CodeAuthFailed).Wrap(ErrAuthenticationFailed)
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, oops.With("operation", "get user").Wrap(err)
	}
	return user, nil
}

// UpdatePreferences merges prefs into the user's preferences: new keys are
// added and existing keys overwritten. Nested maps and slices are copied, so
// later changes to prefs do not reach the stored user.
func (s *Service) UpdatePreferences(ctx context.Context, userID ulid.ULID, prefs map[string]any) error {
	if err := s.users.MergePreferences(ctx, userID, prefs); err != nil {
		return oops.With("operation", "merge preferences").Wrap(err)
	}
	s.logger.DebugContext(ctx, "preferences updated", "user_id", userID.String(), "keys", len(prefs))
	return nil
}

// LogInteraction appends a timestamped entry to the user's interaction log.
// Returns USER_NOT_FOUND if no user has the given ID; nothing is changed.
func (s *Service) LogInteraction(ctx context.Context, userID ulid.ULID, interactionType, details string) error {
	entry := Interaction{
		Timestamp: s.now().UTC(),
		Type:      interactionType,
		Details:   details,
	}
	if err := s.users.AppendInteraction(ctx, userID, entry); err != nil {
		return oops.With("operation", "append interaction").Wrap(err)
	}
	InteractionsLogged.Inc()
	s.logger.InfoContext(ctx, "interaction logged",
		"user_id", userID.String(),
		"type", interactionType)
	return nil
}

// AddResource stores a new resource. No field is validated.
func (s *Service) AddResource(ctx context.Context, name, description, category string, link *string) (*Resource, error) {
	resource := NewResource(name, description, category, link)
	if err := s.resources.CreateResource(ctx, resource); err != nil {
		return nil, oops.With("operation", "store resource").Wrap(err)
	}
	ResourcesAdded.Inc()
	s.logger.DebugContext(ctx, "resource added",
		"resource_id", resource.ID.String(),
		"category", category)
	return resource.clone(), nil
}

// ResourcesByCategory returns the resources whose category equals category
// exactly, in insertion order. An unknown category yields an empty slice.
func (s *Service) ResourcesByCategory(ctx context.Context, category string) ([]*Resource, error) {
	all, err := s.listResources(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*Resource, 0)
	for _, r := range all {
		if r.Category == category {
			result = append(result, r)
		}
	}
	return result, nil
}

// FindResource looks up a resource by ID. A missing resource returns
// (nil, false, nil).
func (s *Service) FindResource(ctx context.Context, id ulid.ULID) (*Resource, bool, error) {
	resource, err := s.resources.GetResource(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, oops.With("operation", "get resource").Wrap(err)
	}
	return resource, true, nil
}

// Categories returns the distinct resource categories in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	all, err := s.listResources(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, r := range all {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	return categories, nil
}

// SearchResources returns resources whose name matches the glob pattern,
// ignoring case, in insertion order.
func (s *Service) SearchResources(ctx context.Context, pattern string) ([]*Resource, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, oops.Code(CodeInvalidPattern).
			With("pattern", pattern).
			Wrap(err)
	}
	all, err := s.listResources(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*Resource, 0)
	for _, r := range all {
		if g.Match(strings.ToLower(r.Name)) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *Service) listResources(ctx context.Context) ([]*Resource, error) {
	all, err := s.resources.ListResources(ctx)
	if err != nil {
		return nil, oops.With("operation", "list resources").Wrap(err)
	}
	return all, nil
}
