// Package session handles the realtime interview session: access
// token minting for the media room and the websocket client that
// turns agent events into animation and history updates.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DekyCS/bagelhacks/internal/logging"
)

// VideoGrant is the room permission block embedded in an access token.
type VideoGrant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// Claims is the access token payload expected by the media server.
type Claims struct {
	jwt.RegisteredClaims
	Video VideoGrant `json:"video"`
}

// Token is a minted room credential.
type Token struct {
	ServerURL   string `json:"serverUrl"`
	RoomName    string `json:"roomName"`
	Participant string `json:"participantName"`
	Token       string `json:"participantToken"`
}

// TokenService mints signed access tokens for interview rooms.
type TokenService struct {
	serverURL string
	apiKey    string
	apiSecret string
	ttl       time.Duration
	log       zerolog.Logger

	now     func() time.Time
	newRoom func() string
}

// NewTokenService creates a TokenService. ttl bounds how long a minted
// token stays valid.
func NewTokenService(serverURL, apiKey, apiSecret string, ttl time.Duration, log zerolog.Logger) *TokenService {
	return &TokenService{
		serverURL: serverURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
		log:       logging.Component(log, "session"),
		now:       time.Now,
		newRoom:   NewRoomName,
	}
}

// NewRoomName returns a fresh room name of the form room-xxxxxxxx.
func NewRoomName() string {
	return "room-" + uuid.NewString()[:8]
}

// Mint creates a token for participant to join room. An empty room
// gets a freshly generated name; an empty participant defaults to
// "candidate".
func (s *TokenService) Mint(participant, room string) (*Token, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return nil, fmt.Errorf("session credentials not configured")
	}
	if participant == "" {
		participant = "candidate"
	}
	if room == "" {
		room = s.newRoom()
	}
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   participant,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Video: VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.apiSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.log.Debug().Str("room", room).Str("participant", participant).Msg("token minted")
	return &Token{
		ServerURL:   s.serverURL,
		RoomName:    room,
		Participant: participant,
		Token:       signed,
	}, nil
}
