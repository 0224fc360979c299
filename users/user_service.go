package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/akmmp241/topupstore-storefront/shared"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const selectUser = "SELECT id, name, email, password, phone_number, email_verification_token, email_verified_at, created_at, updated_at FROM users"

type UserService struct {
	Validator *validator.Validate
	DB        *sql.DB
	Publisher EventPublisher
}

func NewUserService(validate *validator.Validate, db *sql.DB, publisher EventPublisher) *UserService {
	if publisher == nil {
		publisher = LogPublisher{}
	}

	return &UserService{Validator: validate, DB: db, Publisher: publisher}
}

func (s *UserService) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/", s.handleCreateUser)
	users.Get("/", s.handleGetUser)
	users.Put("/", s.handleUpdateUser)
	users.Delete("/:id", s.handleDeleteUser)
	users.Patch("/verify/:token", s.handleVerifyEmail)
}

func (s *UserService) validate(request any) error {
	err := s.Validator.Struct(request)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return shared.NewFailedValidationError(request, validationErrs)
	}

	return err
}

func (s *UserService) handleCreateUser(c *fiber.Ctx) error {
	registerRequest := &RegisterRequest{}
	if err := shared.BindBody(c, registerRequest); err != nil {
		return err
	}

	if err := s.validate(registerRequest); err != nil {
		return err
	}

	password, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	registerRequest.Password = string(password)

	id, err := s.insertUser(c.UserContext(), registerRequest)
	if err != nil {
		if shared.IsDuplicateEntry(err) {
			return fiber.NewError(fiber.StatusConflict, "Duplicate entry. "+duplicateField(err))
		}
		slog.Info("Error occurred while inserting user", "err", err)
		return err
	}

	s.publishRegistered(c.UserContext(), id, registerRequest)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    fiber.Map{"id": id},
		"errors":  nil,
	})
}

func (s *UserService) insertUser(ctx context.Context, req *RegisterRequest) (id int64, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer shared.CommitOrRollback(tx, &err)

	result, err := tx.ExecContext(ctx, "INSERT INTO users (name, email, password, phone_number, email_verification_token) VALUES (?, ?, ?, ?, ?)",
		req.Name, req.Email, req.Password, req.PhoneNumber, req.EmailVerificationToken)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *UserService) publishRegistered(ctx context.Context, id int64, req *RegisterRequest) {
	event, err := json.Marshal(UserRegisteredEvent{
		Type:                   EventUserRegistered,
		UserId:                 id,
		Name:                   req.Name,
		Email:                  req.Email,
		EmailVerificationToken: req.EmailVerificationToken,
		OccurredAt:             time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to encode user event", "err", err)
		return
	}

	if err := s.Publisher.Publish(ctx, req.Email, event); err != nil {
		slog.Error("Failed to publish user event", "user_id", id, "err", err)
	}
}

func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return "email already exists"
	case strings.Contains(msg, "phone_number"):
		return "phone number already exists"
	default:
		return ""
	}
}

// userSelector resolves the ?id= / ?email= pair. Exactly one must be set.
func userSelector(c *fiber.Ctx) (column string, target string, err error) {
	userID := c.Query("id")
	userEmail := c.Query("email")

	if userEmail == "" && userID == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "User ID or email is required")
	} else if userEmail != "" && userID != "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Only one of user ID or email should be provided")
	}

	if userEmail != "" {
		return "email", userEmail, nil
	}
	return "id", userID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var user User
	var emailVerificationToken sql.NullString
	var emailVerifiedAt sql.NullTime

	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.Password, &user.PhoneNumber, &emailVerificationToken, &emailVerifiedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if emailVerificationToken.Valid {
		user.EmailVerificationToken = emailVerificationToken.String
	}
	if emailVerifiedAt.Valid {
		user.EmailVerifiedAt = &emailVerifiedAt.Time
	}

	return &user, nil
}

func (s *UserService) handleGetUser(c *fiber.Ctx) error {
	column, target, err := userSelector(c)
	if err != nil {
		return err
	}

	// column is one of two literals from userSelector
	row := s.DB.QueryRowContext(c.UserContext(), selectUser+" WHERE "+column+" = ?", target)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		slog.Debug("Error occurred while querying user", "err", err)
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User retrieved successfully",
		"data":    user,
		"errors":  nil,
	})
}

func (s *UserService) handleUpdateUser(c *fiber.Ctx) error {
	column, target, err := userSelector(c)
	if err != nil {
		return err
	}

	updateRequest := &UpdateRequest{}
	if err := shared.BindBody(c, updateRequest); err != nil {
		return err
	}

	if err := s.validate(updateRequest); err != nil {
		return err
	}

	password, err := bcrypt.GenerateFromPassword([]byte(updateRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	updateRequest.Password = string(password)

	rowsAffected, err := s.updateUser(c.UserContext(), column, target, updateRequest)
	if err != nil {
		if shared.IsDuplicateEntry(err) {
			return fiber.NewError(fiber.StatusConflict, "Duplicate entry. "+duplicateField(err))
		}
		slog.Info("Internal server error", "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update user")
	}

	if rowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    nil,
		"errors":  nil,
	})
}

func (s *UserService) updateUser(ctx context.Context, column, target string, req *UpdateRequest) (rows int64, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer shared.CommitOrRollback(tx, &err)

	query := "UPDATE users SET email = ?, password = ?, updated_at = CURRENT_TIMESTAMP WHERE " + column + " = ?"
	result, err := tx.ExecContext(ctx, query, req.Email, req.Password, target)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (s *UserService) handleDeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}

	result, err := s.DB.ExecContext(c.UserContext(), "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		slog.Info("Error occurred while deleting user", "err", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"data":    nil,
		"errors":  nil,
	})
}

func (s *UserService) handleVerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid token")
	}

	result, err := s.DB.ExecContext(c.UserContext(), "UPDATE users SET email_verification_token = NULL, email_verified_at = ?, updated_at = CURRENT_TIMESTAMP WHERE email_verification_token = ?",
		time.Now().UTC(), token)
	if err != nil {
		slog.Debug("Error occurred while updating user", "err", err)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": "Email verified",
		"data":    nil,
		"errors":  nil,
	})
}
