package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SeatClaims binds the bearer of a token to one color of one game.
type SeatClaims struct {
	GameID string `json:"game_id"`
	Color  int    `json:"color"`
	jwt.RegisteredClaims
}

// SeatIssuer signs and checks seat tokens with a shared HMAC secret.
type SeatIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatIssuer(secret string, ttl time.Duration) *SeatIssuer {
	return &SeatIssuer{secret: []byte(secret), ttl: ttl}
}

// GenerateSeatToken creates a token for the given game and color
func (s *SeatIssuer) GenerateSeatToken(gameID string, color int) (string, error) {
	now := time.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Color:  color,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSeatToken validates a seat token and returns its claims
func (s *SeatIssuer) ValidateSeatToken(tokenString string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SeatClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid seat token")
}

var ErrWrongGame = errors.New("seat token belongs to another game")

// Seat validates tokenString and checks it was issued for gameID. It returns
// the color bound to the token.
func (s *SeatIssuer) Seat(tokenString, gameID string) (int, error) {
	claims, err := s.ValidateSeatToken(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.GameID != gameID {
		return 0, ErrWrongGame
	}
	return claims.Color, nil
}
