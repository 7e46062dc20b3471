package jwt

import (
	"errors"
	"fmt"
	"time"

	"recipe-feed/domain"

	"github.com/golang-jwt/jwt/v4"
)

var ErrMissingSecret = errors.New("jwt secret is not set")

type (
	// JWTService signs the upload tickets handed out with presigned URLs so
	// the upload callback can trust the metadata it gets back.
	JWTService interface {
		GenerateUploadTicket(ticket domain.UploadTicket, duration time.Duration) (string, error)
		ValidateUploadTicket(token string) (domain.UploadTicket, error)
	}

	uploadTicketClaim struct {
		UserID   string  `json:"user_id"`
		Key      string  `json:"key"`
		Name     string  `json:"name"`
		Size     int64   `json:"size"`
		CustomID *string `json:"custom_id,omitempty"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

// NewJWTService refuses an empty secret: HS256 with an empty key signs
// tickets anyone can forge.
func NewJWTService(secretKey string) (JWTService, error) {
	if secretKey == "" {
		return nil, ErrMissingSecret
	}
	return &jwtService{
		secretKey: secretKey,
		issuer:    "RECIPE-FEED",
	}, nil
}

func (j *jwtService) GenerateUploadTicket(ticket domain.UploadTicket, duration time.Duration) (string, error) {
	now := time.Now()
	claims := uploadTicketClaim{
		ticket.UserID,
		ticket.Key,
		ticket.Name,
		ticket.Size,
		ticket.CustomID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   ticket.Key,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateUploadTicket(token string) (domain.UploadTicket, error) {
	t_Token, err := jwt.ParseWithClaims(token, &uploadTicketClaim{}, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.UploadTicket{}, fmt.Errorf("%w: expired", domain.ErrUploadTicket)
		}
		return domain.UploadTicket{}, domain.ErrUploadTicket
	}
	if !t_Token.Valid {
		return domain.UploadTicket{}, domain.ErrUploadTicket
	}

	claims := t_Token.Claims.(*uploadTicketClaim)
	if claims.Issuer != j.issuer || claims.UserID == "" || claims.Key == "" {
		return domain.UploadTicket{}, domain.ErrUploadTicket
	}

	return domain.UploadTicket{
		UserID:   claims.UserID,
		Key:      claims.Key,
		Name:     claims.Name,
		Size:     claims.Size,
		CustomID: claims.CustomID,
	}, nil
}
