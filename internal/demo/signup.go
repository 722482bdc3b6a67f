// Package demo holds the signup chain used by the modulink CLI.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/modulink"
	"github.com/aretw0/modulink/internal/logging"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/dsl"
	"github.com/aretw0/modulink/pkg/link"
	"github.com/aretw0/modulink/pkg/middleware"
	"github.com/aretw0/modulink/pkg/ports"
)

const (
	LinkValidateEmail = "validate_email"
	LinkLookupProfile = "lookup_profile"
	LinkSendWelcome   = "send_welcome"
	LinkErrorHandler  = "error_handler"
)

// Options wires the signup chain to its collaborators. Zero values are valid.
type Options struct {
	Logger   *slog.Logger
	Cache    ports.Cache // backs the memoized profile lookup
	CacheTTL time.Duration
	Metrics  *middleware.Metrics
	MaxSteps int

	// Mailer delivers the welcome message. The default only records it.
	Mailer func(ctx context.Context, email, message string) error
}

// Signup builds the chain
//
//	validate_email -> lookup_profile -> send_welcome -> error_handler
//
// validate_email routes to error_handler when the email is missing or
// malformed; lookup_profile and send_welcome route there on exceptions.
// error_handler only acts when something failed, so successful runs pass
// through it unchanged.
func Signup(opts Options) (*modulink.Chain, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	b := dsl.New("signup").
		Add(ValidateEmail()).OnError(LinkErrorHandler).Label("invalid email").
		Then(LookupProfile(opts.Cache, opts.CacheTTL, logger)).OnException(LinkErrorHandler).Label("lookup failed").
		Then(SendWelcome(opts.Mailer)).OnException(LinkErrorHandler).Label("delivery failed").
		Then(ErrorHandler()).
		Chain().
		Use(middleware.Logging(logger)).
		Use(middleware.Timing())
	if opts.Metrics != nil {
		b.Use(opts.Metrics)
	}

	chainOpts := []modulink.Option{modulink.WithLogger(logger)}
	if opts.MaxSteps != 0 {
		chainOpts = append(chainOpts, modulink.WithMaxSteps(opts.MaxSteps))
	}
	return b.Build(chainOpts...)
}

// ValidateEmail records "Missing email" or "Invalid email" business errors.
func ValidateEmail() ports.Link {
	return link.Validate(LinkValidateEmail, func(v domain.View) error {
		raw, ok := v.Get("email")
		if !ok || raw == nil || raw == "" {
			return errors.New("Missing email")
		}
		email, isString := raw.(string)
		if local, domainPart, found := strings.Cut(email, "@"); !isString || !found || local == "" || domainPart == "" {
			return errors.New("Invalid email")
		}
		return nil
	})
}

// LookupProfile derives a display name from the email, memoized per address.
func LookupProfile(cache ports.Cache, ttl time.Duration, logger *slog.Logger) ports.Link {
	lookup := link.New(LinkLookupProfile, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		email, _ := domain.Value[string](c, "email")
		local, _, _ := strings.Cut(email, "@")
		if local == "" {
			return nil, fmt.Errorf("no local part in %q", email)
		}
		return c.WithData("display_name", strings.ToUpper(local[:1])+local[1:]), nil
	})

	opts := []link.MemoizeOption{link.WithCacheLogger(logger)}
	if cache != nil {
		opts = append(opts, link.WithCache(cache))
	}
	key := func(v domain.View) string {
		email, _ := domain.Value[string](v, "email")
		return "profile:" + strings.ToLower(email)
	}
	return link.Memoize(key, lookup, ttl, opts...)
}

// SendWelcome delivers the welcome message and sets sent=true.
func SendWelcome(mailer func(ctx context.Context, email, message string) error) ports.Link {
	return link.New(LinkSendWelcome, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		email, _ := domain.Value[string](c, "email")
		name, ok := domain.Value[string](c, "display_name")
		if !ok {
			name = email
		}
		message := fmt.Sprintf("Welcome, %s!", name)

		if mailer != nil {
			if err := mailer(ctx, email, message); err != nil {
				return nil, fmt.Errorf("failed to send welcome email: %w", err)
			}
		}
		return c.WithResult(map[string]any{"sent": true, "message": message}), nil
	})
}

// ErrorHandler summarizes failures for the caller. It leaves successful contexts untouched.
func ErrorHandler() ports.Link {
	handle := link.New(LinkErrorHandler, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		reasons := make([]any, 0, len(c.Errors())+1)
		for _, e := range c.Errors() {
			reasons = append(reasons, e.Message)
		}
		if exc := c.Exception(); exc != nil {
			reasons = append(reasons, exc.Error())
		}
		return c.WithResult(map[string]any{"sent": false, "reasons": reasons}), nil
	})
	return link.When(domain.Any(domain.HasErrors(), domain.HasException()), handle)
}
