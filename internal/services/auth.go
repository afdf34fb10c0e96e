package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authrepo "github.com/leaseledger/leaseledger-backend/internal/data/repos/auth"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      authrepo.UserRepo
	userTokenRepo authrepo.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo authrepo.UserRepo,
	userTokenRepo authrepo.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("user required")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)

	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("valid email required")
	}
	if len(user.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	exists, eErr := as.userRepo.EmailExists(dbctx.Context{Ctx: ctx}, user.Email)
	if eErr != nil {
		return fmt.Errorf("failed to check email: %w", eErr)
	}
	if exists {
		return fmt.Errorf("email already registered")
	}

	hashed, hErr := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if hErr != nil {
		return fmt.Errorf("failed to hash password: %w", hErr)
	}
	user.Password = string(hashed)

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.ID = uuid.New()
		if _, cErr := as.userRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, []*types.User{user}); cErr != nil {
			return fmt.Errorf("failed to create user: %w", cErr)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password required")
	}

	users, usErr := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if usErr != nil {
		return "", "", fmt.Errorf("error retrieving user by email: %w", usErr)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("invalid credentials")
	}

	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}

	var accessToken string
	var refreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		foundTokens, ftErr := as.userTokenRepo.GetByUserIDs(dbc, []uuid.UUID{user.ID})
		if ftErr != nil {
			return fmt.Errorf("failed to check user tokens: %w", ftErr)
		}
		if len(foundTokens) > 0 {
			if dtErr := as.userTokenRepo.FullDeleteByUserIDs(dbc, []uuid.UUID{user.ID}); dtErr != nil {
				return fmt.Errorf("failed to delete stale user tokens: %w", dtErr)
			}
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token error: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, ctErr := as.userTokenRepo.Create(dbc, []*types.UserToken{&userToken}); ctErr != nil {
			as.log.Warn("Create user token error", "error", ctErr)
			return fmt.Errorf("create user token error: %w", ctErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return "", "", fmt.Errorf("no request data found in context")
	}
	if rd.RefreshToken == "" {
		return "", "", fmt.Errorf("refresh token not found in request data")
	}

	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(dbc, []string{rd.RefreshToken})
		if ftErr != nil {
			return fmt.Errorf("error fetching refresh token: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return fmt.Errorf("unknown refresh token")
		}
		existingToken := foundTokens[0]

		const expiryBuffer = 5 * time.Minute
		if existingToken.ExpiresAt.Add(expiryBuffer).Before(time.Now()) {
			if dtErr := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existingToken.ID}); dtErr != nil {
				return fmt.Errorf("refresh token expired, error deleting: %w", dtErr)
			}
			return fmt.Errorf("refresh token expired")
		}

		users, uErr := as.userRepo.GetByIDs(dbc, []uuid.UUID{existingToken.UserID})
		if uErr != nil {
			return fmt.Errorf("failed to load user for refresh: %w", uErr)
		}
		if len(users) == 0 {
			return fmt.Errorf("no user found for the given refresh token")
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("failed to generate new access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newUserToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  tok,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(dbc, []*types.UserToken{&newUserToken}); cErr != nil {
			return fmt.Errorf("failed to create new user token: %w", cErr)
		}
		if dErr := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existingToken.ID}); dErr != nil {
			return fmt.Errorf("failed to remove old refresh token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Refresh transaction failed", "error", err)
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context")
	}
	if rd.TokenString == "" {
		return fmt.Errorf("token string in request data empty")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if ftErr != nil {
			return fmt.Errorf("error finding user token from token string: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return nil
		}
		if tdErr := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{foundTokens[0].ID}); tdErr != nil {
			return fmt.Errorf("error deleting user token: %w", tdErr)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshTokenStr string
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if ftErr != nil {
		as.log.Warn("Error fetching user token by access token", "error", ftErr)
		return ctx, fmt.Errorf("failed to fetch user token by access token: %w", ftErr)
	}
	if len(foundTokens) > 0 {
		refreshTokenStr = foundTokens[0].RefreshToken
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshTokenStr,
		UserID:       userID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
