package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomz197/warzone/internal/mission"
)

var (
	ErrMissingFields      = errors.New("identity and password are required")
	ErrIdentityTaken      = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfAlly           = errors.New("cannot ally with yourself")
)

// Admin describes the optional operator account seeded at startup.
type Admin struct {
	Identity string
	Password string
}

// Service registers, authenticates and updates players on top of a Store.
type Service struct {
	mu     sync.Mutex // serializes read-modify-write on the store
	store  Store
	logger *log.Logger
	now    func() time.Time
	cost   int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) ServiceOption {
	return func(s *Service) { s.cost = cost }
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

func (s *Service) Store() Store { return s.store }

// Register creates a level-1 player carrying only the starter weapon.
func (s *Service) Register(ctx context.Context, identity, email, password string) (Player, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return Player{}, ErrMissingFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Get(ctx, identity); err == nil {
		return Player{}, ErrIdentityTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Player{}, fmt.Errorf("lookup %q: %w", identity, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Player{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	p := Player{
		Identity:         identity,
		Email:            strings.TrimSpace(email),
		CredentialSecret: string(hash),
		Level:            mission.MinLevel,
		Loadout:          []string{StarterWeapon},
		Allies:           []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Put(ctx, p); err != nil {
		return Player{}, fmt.Errorf("store %q: %w", identity, err)
	}
	s.logger.Info("player registered", "identity", identity)
	return p.normalize(), nil
}

// Login checks password against the stored secret.
func (s *Service) Login(ctx context.Context, identity, password string) (Player, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return Player{}, ErrMissingFields
	}
	p, err := s.store.Get(ctx, identity)
	if errors.Is(err, ErrNotFound) {
		return Player{}, ErrInvalidCredentials
	}
	if err != nil {
		return Player{}, fmt.Errorf("lookup %q: %w", identity, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.CredentialSecret), []byte(password)); err != nil {
		return Player{}, ErrInvalidCredentials
	}
	return p, nil
}

// Authenticate logs the player in, registering them on first contact.
func (s *Service) Authenticate(ctx context.Context, identity, password string) (Player, error) {
	p, err := s.Login(ctx, identity, password)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return Player{}, err
	}
	if _, getErr := s.store.Get(ctx, strings.TrimSpace(identity)); getErr == nil {
		return Player{}, ErrInvalidCredentials
	}
	p, err = s.Register(ctx, identity, "", password)
	if errors.Is(err, ErrIdentityTaken) {
		// Lost a race with a concurrent first login.
		return s.Login(ctx, identity, password)
	}
	return p, err
}

// EnsurePlayer returns the player for identity, creating a passwordless
// level-1 record for local play if none exists. Such a player cannot log in
// over SSH until an operator sets a password.
func (s *Service) EnsurePlayer(ctx context.Context, identity string) (Player, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return Player{}, ErrMissingFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, identity)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Player{}, fmt.Errorf("lookup %q: %w", identity, err)
	}
	now := s.now()
	p = Player{
		Identity:  identity,
		Level:     mission.MinLevel,
		Loadout:   []string{StarterWeapon},
		Allies:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, p); err != nil {
		return Player{}, fmt.Errorf("store %q: %w", identity, err)
	}
	s.logger.Info("local player created", "identity", identity)
	return p, nil
}

// SetPassword replaces the credential of an existing player.
func (s *Service) SetPassword(ctx context.Context, identity, password string) (Player, error) {
	if password == "" {
		return Player{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Player{}, fmt.Errorf("hash password: %w", err)
	}
	return s.update(ctx, identity, func(p *Player) bool {
		p.CredentialSecret = string(hash)
		return true
	})
}

// EnsureAdmin creates or refreshes the operator account at level 10 with the
// full arsenal. Existing progress data other than level and loadout is kept.
func (s *Service) EnsureAdmin(ctx context.Context, a Admin) (Player, error) {
	if strings.TrimSpace(a.Identity) == "" || a.Password == "" {
		return Player{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), s.cost)
	if err != nil {
		return Player{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p, err := s.store.Get(ctx, a.Identity)
	switch {
	case errors.Is(err, ErrNotFound):
		p = Player{Identity: a.Identity, CreatedAt: now, Allies: []string{}}
	case err != nil:
		return Player{}, fmt.Errorf("lookup %q: %w", a.Identity, err)
	}
	p.CredentialSecret = string(hash)
	p.Level = mission.MaxLevel
	p.Loadout = append(p.Loadout, adminLoadout...)
	p.Admin = true
	p.UpdatedAt = now
	if err := s.store.Put(ctx, p); err != nil {
		return Player{}, fmt.Errorf("store %q: %w", a.Identity, err)
	}
	s.logger.Info("admin account ready", "identity", a.Identity)
	return p.normalize(), nil
}

// AddAlly adds ally to the allies of identity. Adding an existing ally is a no-op.
func (s *Service) AddAlly(ctx context.Context, identity, ally string) (Player, error) {
	if identity == ally {
		return Player{}, ErrSelfAlly
	}
	if _, err := s.store.Get(ctx, ally); err != nil {
		return Player{}, fmt.Errorf("ally %q: %w", ally, err)
	}
	return s.update(ctx, identity, func(p *Player) bool {
		var changed bool
		p.Allies, changed = addToSet(p.Allies, ally)
		return changed
	})
}

// RemoveAlly removes ally from the allies of identity. Removing a stranger is a no-op.
func (s *Service) RemoveAlly(ctx context.Context, identity, ally string) (Player, error) {
	return s.update(ctx, identity, func(p *Player) bool {
		var changed bool
		p.Allies, changed = removeFromSet(p.Allies, ally)
		return changed
	})
}

// SetLevel overrides the stored level. It is an operator action and may lower it.
func (s *Service) SetLevel(ctx context.Context, identity string, level int) (Player, error) {
	if !mission.ValidLevel(level) {
		return Player{}, fmt.Errorf("level %d: %w", level, mission.ErrOutOfRange)
	}
	return s.update(ctx, identity, func(p *Player) bool {
		if p.Level == level {
			return false
		}
		p.Level = level
		return true
	})
}

func (s *Service) update(ctx context.Context, identity string, fn func(*Player) bool) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.store.Get(ctx, identity)
	if err != nil {
		return Player{}, fmt.Errorf("player %q: %w", identity, err)
	}
	p = p.normalize()
	if !fn(&p) {
		return p, nil
	}
	p.UpdatedAt = s.now()
	if err := s.store.Put(ctx, p); err != nil {
		return Player{}, fmt.Errorf("store %q: %w", identity, err)
	}
	return p, nil
}
