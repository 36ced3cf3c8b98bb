// Package tokens mints and validates the single-use reservation link tokens
// counselors hand out to applicants.
package tokens

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"counseld/internal/access"
	"counseld/internal/apperr"
	"counseld/internal/kst"
	"counseld/internal/mail"
	"counseld/internal/models"
)

// DefaultExpiresInHours is the token lifetime applied when the caller omits one.
const DefaultExpiresInHours = 24

// Store is the persistence surface the token service needs.
type Store interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateToken(ctx context.Context, t *models.ReservationToken) error
	TokenByHash(ctx context.Context, hash string) (*models.ReservationToken, error)
	AppendAudit(ctx context.Context, entry *models.AuditLog) error
}

// Service creates and validates reservation tokens.
type Service struct {
	store   Store
	mail    mail.Sender
	baseURL string
	now     func() time.Time
}

// NewService wires the token service. baseURL is the public origin embedded in
// mailed links.
func NewService(store Store, sender mail.Sender, baseURL string) *Service {
	return &Service{
		store:   store,
		mail:    sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// HashToken computes the sha256 hex digest stored in place of the raw secret.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CreateRequest selects the counselor and lifetime for a new link.
type CreateRequest struct {
	CounselorID    *uuid.UUID `json:"counselorId"`
	ExpiresInHours *int       `json:"expiresInHours"`
}

// CreateResult is the minted link. The raw secret appears here once and is
// never retrievable again.
type CreateResult struct {
	Link      string `json:"link"`
	ExpiresAt string `json:"expiresAt"`
}

// Create mints a token, persists its hash, and mails the link to the owning
// counselor. Admins may mint for any counselor; counselors only for themselves.
// Mail delivery failure fails the call even though the token is already
// persisted (see DESIGN.md).
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateRequest) (*CreateResult, error) {
	counselorID := actor.UserID
	if req.CounselorID != nil && *req.CounselorID != actor.UserID {
		if actor.Role != models.RoleAdmin {
			return nil, apperr.New(apperr.Forbidden, "only admins may issue links for other counselors")
		}
		counselorID = *req.CounselorID
	}

	counselor, err := s.store.UserByID(ctx, counselorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "counselor not found")
		}
		return nil, err
	}

	hours := DefaultExpiresInHours
	if req.ExpiresInHours != nil {
		if *req.ExpiresInHours < 1 {
			return nil, apperr.New(apperr.InvalidInput, "expiresInHours must be at least 1")
		}
		hours = *req.ExpiresInHours
	}

	raw, err := newSecret()
	if err != nil {
		return nil, err
	}

	token := &models.ReservationToken{
		ID:          uuid.New(),
		CounselorID: counselor.ID,
		TokenHash:   HashToken(raw),
		ExpiresAt:   s.now().Add(time.Duration(hours) * time.Hour),
	}
	if err := s.store.CreateToken(ctx, token); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/public/reserve?token=%s", s.baseURL, raw)
	if err := s.mail.SendReservationLink(counselor.Email, link); err != nil {
		// The token row stays behind: unreachable, unused, and expiring on its own.
		return nil, apperr.New(apperr.Internal, "failed to deliver reservation link email")
	}

	s.audit(ctx, actor, token)

	return &CreateResult{Link: link, ExpiresAt: kst.Format(token.ExpiresAt)}, nil
}

// Validate checks a raw token and returns its record without consuming it.
// Consumption happens inside the booking transaction on success.
func (s *Service) Validate(ctx context.Context, raw string) (*models.ReservationToken, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, apperr.New(apperr.InvalidInput, "token is required")
	}

	record, err := s.store.TokenByHash(ctx, HashToken(trimmed))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown and malformed tokens read the same to avoid leaking existence.
			return nil, apperr.New(apperr.Unauthorized, "invalid or expired link")
		}
		return nil, err
	}

	if !record.ExpiresAt.After(s.now()) {
		return nil, apperr.New(apperr.Unauthorized, "link has expired")
	}
	if record.UsedAt != nil {
		return nil, apperr.New(apperr.Unauthorized, "link has already been used")
	}

	return record, nil
}

func (s *Service) audit(ctx context.Context, actor access.Actor, token *models.ReservationToken) {
	targetID := token.ID.String()
	entry := &models.AuditLog{
		ActorID:    &actor.UserID,
		Action:     "email_link.created",
		TargetType: "reservation_token",
		TargetID:   &targetID,
		Metadata:   []byte(fmt.Sprintf(`{"counselorId":%q}`, token.CounselorID)),
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("append audit entry")
	}
}
