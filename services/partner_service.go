package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/partner"
)

type PartnerService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewPartnerService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *PartnerService {
	return &PartnerService{store: store, api: client, protocol: protocol}
}

func (s *PartnerService) GetPartners(ctx context.Context) ([]*partner.Partner, error) {
	return fetchCached[[]*partner.Partner](ctx, s.store, s.api, cache.PartnersKey(), "/api/partners")
}

// AddPartner sends an accountability-partner invite. Partner ids are always
// server-assigned UUIDs, so a malformed id is rejected before any cache work.
func (s *PartnerService) AddPartner(ctx context.Context, partnerID string) (*partner.Partner, error) {
	if _, err := uuid.Parse(partnerID); err != nil {
		return nil, fmt.Errorf("invalid partner id: %w", err)
	}

	tok := s.protocol.Begin(optimistic.AddPartnerAction(partnerID))

	confirmed := &partner.Partner{}
	req := &partner.AddPartnerRequest{PartnerID: partnerID}
	if err := s.api.Post(ctx, "/api/partners", req, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to add partner: %w", err)
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *PartnerService) RemovePartner(ctx context.Context, partnerID string) error {
	if _, err := uuid.Parse(partnerID); err != nil {
		return fmt.Errorf("invalid partner id: %w", err)
	}

	tok := s.protocol.Begin(optimistic.RemovePartnerAction(partnerID))

	if err := s.api.Delete(ctx, "/api/partners/"+partnerID); err != nil {
		s.protocol.Rollback(tok)
		return fmt.Errorf("failed to remove partner: %w", err)
	}
	s.protocol.Commit(tok, nil)
	return nil
}
