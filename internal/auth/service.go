package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/chainpay/backend/internal/db"
	"github.com/google/uuid"
)

var (
	ErrInvalidWallet    = errors.New("invalid_wallet")
	ErrInvalidNonce     = errors.New("invalid_nonce")
	ErrInvalidSignature = errors.New("invalid_signature")
)

type Repository interface {
	UpsertUser(ctx context.Context, walletAddress string) (*db.User, error)
	GetUserByID(ctx context.Context, userID string) (*db.User, error)
	CreateNonce(ctx context.Context, walletAddress, nonce string, expiresAt time.Time) error
	ConsumeNonce(ctx context.Context, walletAddress, nonce string) (bool, error)
	CreateSession(ctx context.Context, userID, refreshHash, userAgent, ipAddress string, expiresAt time.Time) (*db.Session, error)
	GetSessionByID(ctx context.Context, sessionID string) (*db.Session, error)
	RevokeSession(ctx context.Context, sessionID string) error
	UpdateSessionRefreshHash(ctx context.Context, sessionID, refreshHash string) error
}

type Service struct {
	repo       Repository
	jwt        *JWTManager
	verifier   WalletVerifier
	accessTTL  time.Duration
	refreshTTL time.Duration
	nonceTTL   time.Duration
	now        func() time.Time
}

type Challenge struct {
	WalletAddress string
	Nonce         string
	Message       string
	ExpiresAt     time.Time
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	User         *db.User
}

func NewService(repo Repository, jwt *JWTManager, verifier WalletVerifier, accessTTL, refreshTTL, nonceTTL time.Duration) *Service {
	if nonceTTL <= 0 {
		nonceTTL = 5 * time.Minute
	}
	return &Service{
		repo:       repo,
		jwt:        jwt,
		verifier:   verifier,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nonceTTL:   nonceTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// IssueChallenge stores a one-time nonce for the wallet and returns the exact
// message the wallet must sign.
func (s *Service) IssueChallenge(ctx context.Context, wallet string) (*Challenge, error) {
	wallet = normalizeWallet(wallet)
	if !ValidWallet(wallet) {
		return nil, ErrInvalidWallet
	}

	nonce := uuid.NewString()
	expiresAt := s.now().Add(s.nonceTTL)
	if err := s.repo.CreateNonce(ctx, wallet, nonce, expiresAt); err != nil {
		return nil, err
	}

	return &Challenge{
		WalletAddress: wallet,
		Nonce:         nonce,
		Message:       ChallengeMessage(wallet, nonce),
		ExpiresAt:     expiresAt,
	}, nil
}

// VerifyWallet consumes the nonce, checks the signature over the challenge
// message and opens an authenticated session for the wallet's user.
func (s *Service) VerifyWallet(ctx context.Context, wallet, nonce, signature, userAgent, ipAddress string) (*AuthTokens, error) {
	wallet = normalizeWallet(wallet)
	if !ValidWallet(wallet) {
		return nil, ErrInvalidWallet
	}

	nonce = strings.TrimSpace(nonce)
	live, err := s.repo.ConsumeNonce(ctx, wallet, nonce)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, ErrInvalidNonce
	}

	if err := s.verifier.VerifySignature(wallet, ChallengeMessage(wallet, nonce), signature); err != nil {
		return nil, ErrInvalidSignature
	}

	user, err := s.repo.UpsertUser(ctx, wallet)
	if err != nil {
		return nil, err
	}

	bundle, err := s.createSessionAndTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{AccessToken: bundle.AccessToken, RefreshToken: bundle.RefreshToken, SessionID: bundle.SessionID, User: user}, nil
}

type sessionBundle struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

func (s *Service) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*AuthTokens, error) {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, errors.New("invalid token type")
	}

	session, err := s.repo.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.RevokedAt != nil {
		return nil, errors.New("session revoked")
	}
	if s.now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}
	if session.RefreshTokenHash != hashToken(refreshToken) {
		return nil, errors.New("refresh token mismatch")
	}

	if err := s.repo.RevokeSession(ctx, session.ID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	bundle, err := s.createSessionAndTokens(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{AccessToken: bundle.AccessToken, RefreshToken: bundle.RefreshToken, SessionID: bundle.SessionID, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return nil
	}
	if claims.Type != "refresh" || claims.SessionID == "" {
		return nil
	}
	return s.repo.RevokeSession(ctx, claims.SessionID)
}

func (s *Service) Me(ctx context.Context, userID string) (*db.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) createSessionAndTokens(ctx context.Context, user *db.User, userAgent, ipAddress string) (*sessionBundle, error) {
	expiresAt := s.now().Add(s.refreshTTL)
	sessionSeed := uuid.NewString()
	session, err := s.repo.CreateSession(ctx, user.ID, hashToken(sessionSeed), userAgent, ipAddress, expiresAt)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.Mint(user.ID, user.WalletAddress, session.ID, "access", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.Mint(user.ID, user.WalletAddress, session.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSessionRefreshHash(ctx, session.ID, hashToken(refreshToken)); err != nil {
		return nil, err
	}

	return &sessionBundle{AccessToken: accessToken, RefreshToken: refreshToken, SessionID: session.ID}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

func ClientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
