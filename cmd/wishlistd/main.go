package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/middlemost/wishlist"
	"github.com/middlemost/wishlist/aws"
	"github.com/middlemost/wishlist/bolt"
	"github.com/middlemost/wishlist/http"
	"github.com/middlemost/wishlist/jwt"
	"github.com/middlemost/wishlist/memory"
	"github.com/middlemost/wishlist/mongo"
	"github.com/middlemost/wishlist/twilio"
	"github.com/subosito/gotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	// Parse command line flags.
	if err := m.ParseFlags(os.Args[1:]); err == flag.ErrHelp {
		fmt.Fprintln(m.Stderr, m.Usage())
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Load configuration.
	if err := m.LoadConfig(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	} else if err := m.LoadEnv(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Execute program until interrupted.
	err := m.Run(ctx)
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the main program execution.
type Main struct {
	ConfigPath string
	EnvPath    string
	Config     Config

	// Input/output streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environment lookup. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	Logger *slog.Logger

	closeFn func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath,
		EnvPath:    DefaultEnvPath,
		Config:     DefaultConfig(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,

		LookupEnv: os.LookupEnv,

		closeFn: func() error { return nil },
	}
}

// Close cleans up the program.
func (m *Main) Close() error { return m.closeFn() }

// Usage returns the usage message.
func (m *Main) Usage() string {
	return strings.TrimSpace(`
usage: wishlistd [flags]

The daemon process serving the wishlist and price comparison API.

The following flags are available:

	-config PATH
		Specifies the configuration file to read.
		Defaults to ~/.wishlist/config

	-env PATH
		Specifies a dotenv file loaded into the environment.
		Defaults to .env

The following environment variables override the configuration:

	PORT, JWT_SECRET, MONGODB_URI, LOG_LEVEL

`)
}

// ParseFlags parses the command line flags.
func (m *Main) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("wishlistd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&m.ConfigPath, "config", "", "config file")
	fs.StringVar(&m.EnvPath, "env", DefaultEnvPath, "dotenv file")
	return fs.Parse(args)
}

// LoadConfig parses the configuration file.
func (m *Main) LoadConfig() error {
	// Default configuration path if not specified.
	path := m.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	// Interpolate path.
	if err := InterpolatePaths(&path); err != nil {
		return err
	}

	// Read configuration file.
	if _, err := toml.DecodeFile(path, &m.Config); os.IsNotExist(err) {
		if m.ConfigPath != "" && m.ConfigPath != DefaultConfigPath {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// LoadEnv loads the dotenv file, if present, and applies environment
// overrides to the configuration.
func (m *Main) LoadEnv() error {
	if m.EnvPath != "" {
		if err := gotenv.Load(m.EnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env: %w", err)
		}
	}

	if v, ok := m.LookupEnv("PORT"); ok && v != "" {
		m.Config.HTTP.Addr = ":" + v
	}
	if v, ok := m.LookupEnv("JWT_SECRET"); ok && v != "" {
		m.Config.Auth.Secret = v
	}
	if v, ok := m.LookupEnv("MONGODB_URI"); ok && v != "" {
		m.Config.Database.Driver = "mongo"
		m.Config.Database.URI = v
	}
	if v, ok := m.LookupEnv("LOG_LEVEL"); ok && v != "" {
		m.Config.Log.Level = v
	}
	return nil
}

// Run executes the program until ctx is canceled or the server fails.
func (m *Main) Run(ctx context.Context) error {
	if m.Logger == nil {
		m.Logger = NewLogger(m.Stdout, m.Config.Log)
	}
	logger := m.Logger

	// Open durable storage. The service runs on memory alone if it cannot.
	st, err := m.openStorage(ctx)
	if err != nil {
		return err
	}

	// Instantiate domain services.
	ledger := wishlist.NewPriceLedger(st.prices, memory.NewPriceBackend())
	ledger.SetLogger(logger)

	wishlistStore := wishlist.NewWishlistStore(st.entries, memory.NewEntryBackend())
	wishlistStore.SetLogger(logger)

	identityStore := wishlist.NewIdentityStore(st.users, memory.NewUserBackend())
	identityStore.SetLogger(logger)

	// Initialize session issuance.
	secret := m.Config.Auth.Secret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		logger.Warn("no jwt secret configured, tokens will not survive a restart")
	}
	tokenService := jwt.NewTokenService(secret)
	if m.Config.Auth.TokenTTL > 0 {
		tokenService.TTL = time.Duration(m.Config.Auth.TokenTTL)
	}

	otpProvider := wishlist.NewFixedOTPProvider(m.Config.Auth.OTP)
	otpProvider.CountryCode = m.Config.SMS.CountryCode
	if otpProvider.SMSService, err = m.smsService(logger); err != nil {
		return err
	}

	sessionIssuer := wishlist.NewSessionIssuer()
	sessionIssuer.IdentityService = identityStore
	sessionIssuer.OTPProvider = otpProvider
	sessionIssuer.TokenService = tokenService
	sessionIssuer.Logger = logger

	// Initialize HTTP server.
	httpServer := http.NewServer()
	httpServer.Addr = m.Config.HTTP.Addr
	httpServer.Host = m.Config.HTTP.Host
	httpServer.Autocert = m.Config.HTTP.Autocert
	httpServer.Logger = logger

	httpServer.PriceService = ledger
	httpServer.WishlistService = wishlistStore
	httpServer.SessionService = sessionIssuer
	httpServer.TokenService = tokenService
	httpServer.StorageAvailable = st.available

	// Open HTTP server.
	if err := httpServer.Open(); err != nil {
		st.close()
		return err
	}
	u := httpServer.URL()
	logger.Info("http listening", "url", u.String())

	// Assign close function.
	m.closeFn = func() error {
		httpServer.Close()
		return st.close()
	}

	// Serve until interrupted.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Serve)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return httpServer.Close()
	})
	return g.Wait()
}

// storage holds the durable backends, if any were opened.
type storage struct {
	prices  wishlist.PriceBackend
	entries wishlist.EntryBackend
	users   wishlist.UserBackend

	available func() bool
	close     func() error
}

// openStorage opens the configured durable store. A store that fails to
// open is logged and memory-only storage is returned.
func (m *Main) openStorage(ctx context.Context) (*storage, error) {
	st := &storage{
		available: func() bool { return false },
		close:     func() error { return nil },
	}

	switch driver := m.Config.Database.Driver; driver {
	case "", "memory":
		m.Logger.Info("storage: memory only")

	case "bolt":
		path := m.Config.Database.Path
		if err := InterpolatePaths(&path); err != nil {
			return nil, err
		}

		db := bolt.NewDB()
		db.Path = path
		if err := db.Open(); err != nil {
			m.Logger.Error("storage: could not open bolt database, running in memory-only mode", "path", path, "error", err)
			return st, nil
		}
		m.Logger.Info("storage: bolt database initialized", "path", path)

		st.prices = bolt.NewPriceBackend(db)
		st.entries = bolt.NewEntryBackend(db)
		st.users = bolt.NewUserBackend(db)
		st.available, st.close = db.Available, db.Close

	case "mongo":
		db := mongo.NewDB()
		db.URI = m.Config.Database.URI
		if m.Config.Database.Name != "" {
			db.Name = m.Config.Database.Name
		}
		if err := db.Open(ctx); err != nil {
			m.Logger.Error("storage: could not connect to mongodb, running in memory-only mode", "error", err)
			return st, nil
		}
		m.Logger.Info("storage: mongodb connected", "name", db.Name)

		st.prices = mongo.NewPriceBackend(db)
		st.entries = mongo.NewEntryBackend(db)
		st.users = mongo.NewUserBackend(db)
		st.available, st.close = db.Available, db.Close

	default:
		return nil, fmt.Errorf("unknown database driver: %q", driver)
	}
	return st, nil
}

// smsService returns the configured SMS provider, if any.
func (m *Main) smsService(logger *slog.Logger) (wishlist.SMSService, error) {
	switch provider := m.Config.SMS.Provider; provider {
	case "":
		return nil, nil

	case "twilio":
		s := twilio.NewSMSService()
		s.AccountSID = m.Config.Twilio.AccountSID
		s.AuthToken = m.Config.Twilio.AuthToken
		s.From = m.Config.Twilio.From
		s.Logger = logger
		return s, nil

	case "aws":
		session, err := aws.NewSession(aws.SessionConfig{
			Region:          m.Config.AWS.Region,
			AccessKeyID:     m.Config.AWS.AccessKeyID,
			SecretAccessKey: m.Config.AWS.SecretAccessKey,
			Endpoint:        m.Config.AWS.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		s := aws.NewSMSService()
		s.Session = session
		s.SenderID = m.Config.AWS.SenderID
		s.Logger = logger
		return s, nil

	default:
		return nil, fmt.Errorf("unknown sms provider: %q", provider)
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// DefaultConfigPath is the default configuration path.
const DefaultConfigPath = "~/.wishlist/config"

// DefaultEnvPath is the default dotenv path.
const DefaultEnvPath = ".env"

// Config represents a configuration file.
type Config struct {
	Database struct {
		Driver string `toml:"driver"`
		Path   string `toml:"path"`
		URI    string `toml:"uri"`
		Name   string `toml:"name"`
	} `toml:"database"`

	HTTP struct {
		Addr     string `toml:"addr"`
		Host     string `toml:"host"`
		Autocert bool   `toml:"autocert"`
	} `toml:"http"`

	Auth struct {
		Secret   string   `toml:"secret"`
		OTP      string   `toml:"otp"`
		TokenTTL Duration `toml:"token-ttl"`
	} `toml:"auth"`

	SMS struct {
		Provider    string `toml:"provider"`
		CountryCode string `toml:"country-code"`
	} `toml:"sms"`

	Twilio struct {
		AccountSID string `toml:"account-sid"`
		AuthToken  string `toml:"auth-token"`
		From       string `toml:"from"`
	} `toml:"twilio"`

	AWS struct {
		AccessKeyID     string `toml:"access-key-id"`
		SecretAccessKey string `toml:"secret-access-key"`
		Region          string `toml:"region"`
		SenderID        string `toml:"sender-id"`
		Endpoint        string `toml:"endpoint"`
	} `toml:"aws"`

	Log LogConfig `toml:"log"`
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "bolt"
	c.Database.Path = "~/.wishlist/db"
	c.Database.Name = mongo.DefaultName
	c.HTTP.Addr = ":3000"
	c.Auth.OTP = wishlist.DefaultOTP
	c.Auth.TokenTTL = Duration(wishlist.DefaultSessionTTL)
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// Duration is a time.Duration decoded from a TOML string such as "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// InterpolatePaths replaces the tilde prefix with the user's home directory.
func InterpolatePaths(a ...*string) error {
	for _, s := range a {
		if !strings.HasPrefix(*s, "~/") {
			continue
		}

		u, err := user.Current()
		if err != nil {
			return err
		} else if u.HomeDir == "" {
			return errors.New("home directory not found")
		}
		*s = filepath.Join(u.HomeDir, strings.TrimPrefix(*s, "~/"))
	}
	return nil
}
