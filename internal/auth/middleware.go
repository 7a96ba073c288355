package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const identityKey = "auth_identity"

// RouteRequirements maps "METHOD pattern" keys to declared requirements.
// The table is constructed once at registration time and never mutated.
type RouteRequirements map[string]AccessRequirement

// RouteKey builds the lookup key for a method and fiber route pattern.
func RouteKey(method, pattern string) string {
	return method + " " + pattern
}

// Guard enforces the declared access requirement before a handler runs.
type Guard struct {
	tokens   *TokenManager
	resolver *IdentityResolver
	routes   RouteRequirements
	logger   *zap.Logger
}

// NewGuard constructs the guard middleware.
func NewGuard(tokens *TokenManager, resolver *IdentityResolver, routes RouteRequirements, logger *zap.Logger) *Guard {
	return &Guard{tokens: tokens, resolver: resolver, routes: routes, logger: logger}
}

// Handle looks up the matched route's requirement and evaluates it. Routes
// missing from the table are denied. Every failure surfaces as a uniform
// 401 while the specific cause is logged.
func (g *Guard) Handle(c *fiber.Ctx) error {
	method := c.Method()
	// fiber auto-registers HEAD for every GET route; HEAD shares the GET
	// declaration rather than falling into the default-deny branch.
	if method == fiber.MethodHead {
		method = fiber.MethodGet
	}
	requirement, ok := g.routes[RouteKey(method, c.Route().Path)]
	if !ok {
		g.logger.Warn("route has no declared access requirement",
			zap.String("method", c.Method()),
			zap.String("route", c.Route().Path))
		requirement = DenyAll()
	}

	// PermitAll skips token extraction and identity resolution entirely.
	if requirement.Kind == RequirementPermitAll {
		return c.Next()
	}

	identity := g.authenticate(c)
	decision := Evaluate(requirement, identity)
	if !decision.Allowed {
		g.logger.Info("access denied",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("reason", decision.Reason))
		return apperrors.NewUnauthorized("unauthorized")
	}

	if identity != nil {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

// authenticate extracts, verifies and resolves the request's credentials.
// A nil result means the request is anonymous for policy purposes.
func (g *Guard) authenticate(c *fiber.Ctx) *Identity {
	token, ok := ExtractToken(c)
	if !ok {
		return nil
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		g.logger.Info("token rejected", zap.String("path", c.Path()), zap.Error(err))
		return nil
	}

	identity, err := g.resolver.Resolve(c.Context(), claims)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			g.logger.Info("token subject unknown", zap.String("path", c.Path()))
		} else {
			g.logger.Error("identity resolution failed", zap.Error(err))
		}
		return nil
	}
	return identity
}

// IdentityFromContext retrieves the identity attached by the guard.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
