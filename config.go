package lyskom

import (
	"log/slog"
	"net"
	"os"
)

// Config holds the settings Connect needs beyond the address: who the
// client identifies as in its handshake, how it dials, how many
// requests it lets run concurrently, and where it logs.
type Config struct {
	// Dialer controls how Connect opens the TCP connection. Defaults to
	// a zero-value *net.Dialer.
	Dialer *net.Dialer

	// Logger receives diagnostic logging for fatal ProtocolErrors and
	// out-of-band ServerErrors. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxInFlight bounds the in-flight table; 0 means unbounded. See
	// spec.md §9 Open Question #1.
	MaxInFlight int

	// User and Host populate the client handshake "A<L>H<user>%<host>\n".
	User string
	Host string
}

func defaultConfig() Config {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return Config{
		Logger: slog.Default(),
		User:   "lyskom-client",
		Host:   host,
	}
}

// WithDialer overrides the dialer Connect uses to open the TCP connection.
func WithDialer(d *net.Dialer) Option {
	return func(c *Config) { c.Dialer = d }
}

// WithLogger overrides the logger fatal errors and out-of-band server
// errors are reported through.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMaxInFlight bounds the number of concurrently outstanding Calls.
// A Call beyond the bound fails immediately with ErrTooManyInFlight.
func WithMaxInFlight(n int) Option {
	return func(c *Config) { c.MaxInFlight = n }
}

// WithClientIdentity sets the user and host reported in the client
// handshake. Both are encoded as Latin-1 bytes over the wire.
func WithClientIdentity(user, host string) Option {
	return func(c *Config) { c.User = user; c.Host = host }
}
