// pkg/session/session.go

package session

import (
	"context"
	"crypto/subtle"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aqua-invoicing/pkg/logger"
)

// FlagName is the fixed key under which the logged-in flag is stored.
const FlagName = "aquaLoggedIn"

// Default admin credentials.
const (
	DefaultID     = "Admin"
	DefaultSecret = "123"
)

// InvalidCredentialsMessage is shown under the login form on a mismatch.
const InvalidCredentialsMessage = "Invalid credentials"

// Credentials is the identifier/secret pair the gate accepts.
type Credentials struct {
	ID     string `mapstructure:"id" validate:"required"`
	Secret string `mapstructure:"secret" validate:"required"`
}

// Gate compares submitted credentials with a fixed pair. It is a convenience
// lock for the admin screen, not a security boundary.
type Gate struct {
	creds Credentials
}

func NewGate(creds Credentials) *Gate {
	return &Gate{creds: creds}
}

// Check returns nil when id and secret match exactly (case-sensitive).
func (g *Gate) Check(id, secret string) error {
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(g.creds.ID)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(g.creds.Secret)) == 1
	if !idOK || !secretOK {
		return ierr.NewError("credential mismatch").
			WithHint(InvalidCredentialsMessage).
			Mark(ierr.ErrInvalidCredentials)
	}
	return nil
}

// State is the session value object handed to request handlers.
type State struct {
	LoggedIn bool
}

// Store persists the flag. Load of a missing key returns false and no error.
type Store interface {
	Load(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
}

// Key scopes the fixed flag name to one browser session.
func Key(sessionID string) string {
	return FlagName + ":" + sessionID
}

// Controller owns session transitions. State is loaded from the store when a
// request starts and written back only on login and logout.
type Controller struct {
	gate   *Gate
	store  Store
	logger *logger.Logger
}

func NewController(gate *Gate, store Store, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{gate: gate, store: store, logger: log.Named("session")}
}

// Load reads the persisted flag for sessionID. An empty id is a fresh, logged out session.
func (c *Controller) Load(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, nil
	}
	loggedIn, err := c.store.Load(ctx, Key(sessionID))
	if err != nil {
		return State{}, ierr.WithError(err).WithHint("could not read session").Mark(ierr.ErrSystem)
	}
	return State{LoggedIn: loggedIn}, nil
}

// Login checks the credentials and, on success, persists the flag.
func (c *Controller) Login(ctx context.Context, sessionID, id, secret string) (State, error) {
	if err := c.gate.Check(id, secret); err != nil {
		c.logger.Infow("login rejected", "session", sessionID, "id", id)
		return State{}, err
	}
	if err := c.store.Save(ctx, Key(sessionID), true); err != nil {
		return State{}, ierr.WithError(err).WithHint("could not save session").Mark(ierr.ErrSystem)
	}
	c.logger.Infow("login accepted", "session", sessionID)
	return State{LoggedIn: true}, nil
}

// Logout removes the persisted flag.
func (c *Controller) Logout(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, nil
	}
	if err := c.store.Delete(ctx, Key(sessionID)); err != nil {
		return State{}, ierr.WithError(err).WithHint("could not clear session").Mark(ierr.ErrSystem)
	}
	c.logger.Infow("logged out", "session", sessionID)
	return State{}, nil
}

type stateKey struct{}

// WithState attaches s to ctx.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// FromContext returns the state attached by WithState, or a logged out state.
func FromContext(ctx context.Context) State {
	s, _ := ctx.Value(stateKey{}).(State)
	return s
}
