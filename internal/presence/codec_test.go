package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []domain.PlayerID{"a", "player-123", "F00DBABE", "with space"}
	for _, id := range ids {
		got, err := Decode(Encode(id))
		require.NoError(t, err, "id %q", id)
		assert.Equal(t, id, got)
	}
}

func TestEncodeEmptyOwnerLosesID(t *testing.T) {
	// The bare token is a valid encoding but carries no owner to decode.
	assert.Equal(t, Token, Encode(""))
	_, err := Decode(Token)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bare token", "AEB"},
		{"wrong token", "XYZ#abc"},
		{"missing id", "AEB#"},
		{"two separators", "AEB#a#b"},
		{"id containing separator", Encode("with#hash")},
		{"separator only", "#"},
		{"id first", "abc#AEB"},
		{"token embedded", "xxAEB#abc#"},
		{"lobby shape", "AEB-abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestContainsToken(t *testing.T) {
	assert.True(t, ContainsToken("AEB#abc"))
	assert.True(t, ContainsToken("xxAEBxx"))
	assert.False(t, ContainsToken(""))
	assert.False(t, ContainsToken("steam:join/1234"))
}

func TestLobbySessionRoundTrip(t *testing.T) {
	got, err := DecodeLobbySession(EncodeLobbySession("player-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID("player-1"), got)

	// Lobby ids may carry extra structure after the prefix; only the
	// prefix itself is strict.
	got, err = DecodeLobbySession("AEB-abc-def")
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID("abc-def"), got)
}

func TestDecodeLobbySessionRejects(t *testing.T) {
	for _, input := range []string{"", "AEB", "AEB-", "AEB#abc", "XYZ-abc", "xAEB-abc"} {
		_, err := DecodeLobbySession(input)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestGroupLaunchPredicates(t *testing.T) {
	assert.True(t, IsGroupLaunch(""))
	assert.True(t, IsGroupLaunch("other-lobby-1"))
	assert.False(t, IsGroupLaunch("AEB-abc"))

	assert.True(t, IsDestination("AEB"))
	assert.False(t, IsDestination("AEB2"))
}
