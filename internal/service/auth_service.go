package service

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bankledger/internal/config"
	"bankledger/internal/domain"
	"bankledger/internal/errors"
	"bankledger/internal/repository"
)

type AuthService struct {
	store          *repository.Store
	accountService *AccountService
	jwtSecret      []byte
	jwtTTL         time.Duration
	logger         *slog.Logger
}

func NewAuthService(store *repository.Store, accountService *AccountService, cfg *config.Config, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:          store,
		accountService: accountService,
		jwtSecret:      []byte(cfg.JWTSecret),
		jwtTTL:         cfg.JWTTTL,
		logger:         logger,
	}
}

// Claims is the JWT payload issued at login and verified by the auth
// middleware.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type RegisterResult struct {
	User    *domain.User
	Account *domain.Account
}

// Register creates the user record and its single account in one atomic
// scope; a failure of either insert leaves neither behind.
func (s *AuthService) Register(req RegisterRequest) (*RegisterResult, error) {
	s.logger.Info("Registering user", "email", req.Email)

	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "email and password are required")
	}

	existing, err := s.store.User().GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to hash password").WithDetails(err.Error())
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	var account *domain.Account
	err = s.store.WithTransaction(func(tx *repository.Store) error {
		if err := tx.User().CreateUser(user); err != nil {
			return err
		}

		account, err = s.accountService.CreateAccountForUser(tx, user.ID)
		return err
	})
	if err != nil {
		s.logger.Warn("Registration aborted", "email", req.Email, "error", err)
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "account_number", account.AccountNumber)
	return &RegisterResult{User: user, Account: account}, nil
}

type LoginResult struct {
	Token         string
	User          *domain.User
	AccountNumber string
}

// Login verifies the credentials and issues a signed JWT. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.store.User().GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", "email", email)
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	account, err := s.store.Account().GetAccountByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:         token,
		User:          user,
		AccountNumber: account.AccountNumber,
	}, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.NewAppError(errors.InternalError, "failed to sign token").WithDetails(err.Error())
	}
	return signed, nil
}

// TokenTTL exposes the token lifetime for the cookie the handler sets.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtTTL
}

// VerifyToken validates the signature and expiry of a token and returns the
// owner identity it carries.
func (s *AuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.ErrUnauthorized
	}

	return userID, nil
}
