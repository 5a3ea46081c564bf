package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// TokenExtractor pulls a raw token out of a request context.
type TokenExtractor func(c router.Context) (string, error)

// ErrMissingToken signals that no extractor found a token on the request.
var ErrMissingToken = errors.New("missing or malformed JWT", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// TokenExtractors builds the extractor chain from a lookup spec in the form
// "header:Authorization,cookie:user".
func TokenExtractors(tokenLookup, authScheme string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		}
	}

	return extractors
}

// ExtractRawToken tries each extractor in order and returns the first token
// found.
func ExtractRawToken(c router.Context, extractors []TokenExtractor) (string, error) {
	for _, extractor := range extractors {
		if token, err := extractor(c); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrMissingToken
}

func tokenFromHeader(header, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 {
			return "", ErrMissingToken
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], scheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrMissingToken
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// RouteAuthenticator is the HTTP boundary glue: it extracts the token the
// way the Config describes and runs the resolver, leaving routing and
// endpoint handlers to the host application.
type RouteAuthenticator struct {
	resolver *CurrentUserResolver
	cfg      Config
	Logger   Logger
	// ErrorHandler receives ErrUnauthenticated for every failure; the
	// resolver already flattened the cause.
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteAuthenticator returns the boundary middleware host.
func NewRouteAuthenticator(resolver *CurrentUserResolver, cfg Config) *RouteAuthenticator {
	a := &RouteAuthenticator{
		resolver: resolver,
		cfg:      cfg,
		Logger:   defLogger{},
	}
	a.ErrorHandler = a.defaultErrorHandler
	return a
}

func (a *RouteAuthenticator) defaultErrorHandler(c router.Context, err error) error {
	return c.Status(router.StatusUnauthorized).SendString(ErrUnauthenticated.Message)
}

// ProtectedRoute resolves the current user on every request and stores the
// principal and claims in both the router locals and the standard context.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	extractors := TokenExtractors(a.cfg.GetTokenLookup(), a.cfg.GetAuthScheme())

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw, err := ExtractRawToken(c, extractors)
			if err != nil {
				return a.ErrorHandler(c, ErrUnauthenticated)
			}

			user, claims, err := a.resolver.ResolveClaims(c.Context(), raw)
			if err != nil {
				return a.ErrorHandler(c, ErrUnauthenticated)
			}

			c.Locals(a.cfg.GetContextKey(), user)
			c.SetContext(WithClaimsContext(WithContext(c.Context(), user), claims))

			return hf(c)
		}
	}
}
