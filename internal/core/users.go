package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"facture/entity"
	"facture/lib/sl"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Register creates a new user account. A verification mail goes out in
// the background unless the debug flag is set.
func (c *Core) Register(ctx context.Context, reg *entity.UserRegister) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Id:           uuid.NewString(),
		Email:        reg.Email,
		PasswordHash: string(hash),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		CompanyName:  reg.CompanyName,
		Address:      reg.Address,
		Siret:        reg.Siret,
		IntracomVat:  reg.IntracomVat,
		Logo:         reg.Logo,
		Rib:          reg.Rib,
		RegisteredAt: time.Now().UTC(),
	}
	if err = c.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	c.log.Info("user registered", slog.String("user", user.Id))

	if !c.conf.Debug && c.mail != nil {
		email := user.Email
		c.tasks.Submit("mail.welcome", func(ctx context.Context) error {
			return c.mail.Send(ctx, email, "Bienvenue", "Votre compte a bien été créé.")
		})
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token with the
// configured lifetime.
func (c *Core) Login(ctx context.Context, login *entity.UserLogin) (string, *entity.User, error) {
	user, err := c.db.UserByEmail(ctx, login.Email)
	if errors.Is(err, entity.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	lifetime := time.Duration(c.conf.Auth.TokenLifetime) * time.Second
	claims := jwt.RegisteredClaims{
		Subject:   user.Id,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.conf.Auth.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	c.log.Debug("user logged in", slog.String("user", user.Id))
	return token, user, nil
}

// AuthenticateByToken resolves a bearer token to its user, used by the
// authenticate middleware on every protected route.
func (c *Core) AuthenticateByToken(ctx context.Context, token string) (*entity.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(c.conf.Auth.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return c.db.UserById(ctx, claims.Subject)
}

// UpdateProfile applies a partial update to the requesting user's own
// profile.
func (c *Core) UpdateProfile(ctx context.Context, user *entity.User, upd *entity.UserUpdate) (*entity.User, error) {
	upd.Apply(user)
	if err := c.db.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	c.log.Debug("profile updated", slog.String("user", user.Id))
	return user, nil
}

func (c *Core) logErr(msg string, err error) {
	c.log.Error(msg, sl.Err(err))
}
