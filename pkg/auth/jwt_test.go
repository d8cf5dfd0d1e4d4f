package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	issuer := NewSeatIssuer("secret", time.Hour)

	token, err := issuer.GenerateSeatToken("game-1", 2)
	require.NoError(t, err)

	claims, err := issuer.ValidateSeatToken(token)
	require.NoError(t, err)
	require.Equal(t, "game-1", claims.GameID)
	require.Equal(t, 2, claims.Color)
}

func TestSeatTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewSeatIssuer("secret", time.Hour).GenerateSeatToken("game-1", 1)
	require.NoError(t, err)

	_, err = NewSeatIssuer("other", time.Hour).ValidateSeatToken(token)
	require.Error(t, err)
}

func TestSeatTokenExpires(t *testing.T) {
	issuer := NewSeatIssuer("secret", -time.Minute)
	token, err := issuer.GenerateSeatToken("game-1", 1)
	require.NoError(t, err)

	_, err = issuer.ValidateSeatToken(token)
	require.Error(t, err)
}

func TestSeatChecksGame(t *testing.T) {
	issuer := NewSeatIssuer("secret", time.Hour)
	token, err := issuer.GenerateSeatToken("game-1", 1)
	require.NoError(t, err)

	color, err := issuer.Seat(token, "game-1")
	require.NoError(t, err)
	require.Equal(t, 1, color)

	_, err = issuer.Seat(token, "game-2")
	require.ErrorIs(t, err, ErrWrongGame)

	_, err = issuer.Seat("garbage", "game-1")
	require.Error(t, err)
}
