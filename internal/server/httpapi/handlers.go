package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/dmitrijs2005/authsession/internal/server/auth"
	"github.com/dmitrijs2005/authsession/internal/server/users"
	"github.com/gofiber/fiber/v2"
)

const (
	userKey   = "auth_user"
	claimsKey = "auth_claims"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func profileOf(u *users.User) profileResponse {
	return profileResponse{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (s *Server) register(c *fiber.Ctx) error {
	var in users.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return newError(http.StatusBadRequest, "invalid payload")
	}

	u, err := s.users.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	s.logger.Info(c.UserContext(), "user registered", "user_id", u.ID, "role", u.Role)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return newError(http.StatusBadRequest, "invalid payload")
	}
	if in.Email == "" || in.Password == "" {
		return newError(http.StatusBadRequest, "email and password required")
	}

	token, err := s.users.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access_token": token})
}

func (s *Server) me(c *fiber.Ctx) error {
	return c.JSON(profileOf(currentUser(c)))
}

func (s *Server) admin(c *fiber.Ctx) error {
	u := currentUser(c)
	if u.Role != users.RoleAdmin {
		return newError(http.StatusForbidden, "Admin access required")
	}
	return c.JSON(fiber.Map{
		"message": "Welcome to the admin area",
		"user":    profileOf(u),
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	if err := s.users.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// requireAuth resolves the bearer token to a user or answers 401.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return newError(http.StatusUnauthorized, "Unauthorized")
	}

	u, claims, err := s.users.Authenticate(c.UserContext(), token)
	if err != nil {
		s.logger.Debug(c.UserContext(), "token rejected", "error", err)
		return err
	}

	c.Locals(userKey, u)
	c.Locals(claimsKey, claims)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *users.User {
	u, _ := c.Locals(userKey).(*users.User)
	return u
}
