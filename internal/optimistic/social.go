package optimistic

import (
	"time"

	"github.com/oklog/ulid/v2"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/challenge"
	"habitFlowClient/internal/types/nudge"
	"habitFlowClient/internal/types/partner"
)

// JoinChallengeAction inserts a pending membership; the dashboard picks up
// the new challenge on its next (invalidated) fetch rather than being
// patched locally, since the challenge record itself lives server-side.
func JoinChallengeAction(challengeID string) Action {
	rec := &challenge.Membership{
		ID:          ulid.Make().String(),
		ChallengeID: challengeID,
		JoinedAt:    time.Now(),
		Pending:     true,
	}

	return Action{
		Keys: []cache.Key{cache.MembershipsKey(), cache.DashboardKey()},
		Speculate: func(s *cache.Store) {
			upsert(s, cache.MembershipsKey(),
				func(m *challenge.Membership) bool { return m.ChallengeID == challengeID },
				func(*challenge.Membership) *challenge.Membership { return nil },
				func() *challenge.Membership { return rec },
			)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			m, ok := confirmed.(*challenge.Membership)
			if !ok || m == nil {
				return
			}
			reconcileList(s, cache.MembershipsKey(), func(c *challenge.Membership) bool {
				return c.Pending || c.ID == m.ID || c.ChallengeID == m.ChallengeID
			}, m)
			s.Invalidate(cache.DashboardKey())
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, cache.MembershipsKey(), func(m *challenge.Membership) bool {
				return m.ID == rec.ID
			}, &failed)
		},
	}
}

func LeaveChallengeAction(challengeID string) Action {
	return Action{
		Keys: []cache.Key{cache.MembershipsKey(), cache.DashboardKey()},
		Speculate: func(s *cache.Store) {
			removeFromList(s, cache.MembershipsKey(), func(m *challenge.Membership) bool {
				return m.ChallengeID == challengeID
			})
		},
		Reconcile: func(s *cache.Store, _ any) {
			s.Invalidate(cache.MembershipsKey(), cache.DashboardKey())
		},
	}
}

// AddPartnerAction inserts a pending partner row so the invite shows up
// immediately.
func AddPartnerAction(partnerID string) Action {
	rec := &partner.Partner{
		ID:      partnerID,
		Status:  partner.StatusPending,
		Since:   time.Now(),
		Pending: true,
	}

	return Action{
		Keys: []cache.Key{cache.PartnersKey()},
		Speculate: func(s *cache.Store) {
			upsert(s, cache.PartnersKey(),
				func(p *partner.Partner) bool { return p.ID == partnerID },
				func(*partner.Partner) *partner.Partner { return nil },
				func() *partner.Partner { return rec },
			)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			p, ok := confirmed.(*partner.Partner)
			if !ok || p == nil {
				return
			}
			reconcileList(s, cache.PartnersKey(), func(c *partner.Partner) bool {
				return c.Pending || c.ID == p.ID
			}, p)
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, cache.PartnersKey(), func(p *partner.Partner) bool {
				return p.ID == rec.ID
			}, &failed)
		},
	}
}

func RemovePartnerAction(partnerID string) Action {
	return Action{
		Keys: []cache.Key{cache.PartnersKey()},
		Speculate: func(s *cache.Store) {
			removeFromList(s, cache.PartnersKey(), func(p *partner.Partner) bool {
				return p.ID == partnerID
			})
		},
		Reconcile: func(s *cache.Store, _ any) {
			s.Invalidate(cache.PartnersKey())
		},
	}
}

func NewPendingNudge(req *nudge.SendNudgeRequest) *nudge.Nudge {
	return &nudge.Nudge{
		ClientID:  ulid.Make().String(),
		PartnerID: req.PartnerID,
		Message:   req.Message,
		Pending:   true,
		SentAt:    time.Now(),
	}
}

func SendNudgeAction(rec *nudge.Nudge) Action {
	match := func(n *nudge.Nudge) bool {
		return n.ClientID != "" && n.ClientID == rec.ClientID
	}

	return Action{
		Keys: []cache.Key{cache.NudgesKey()},
		Speculate: func(s *cache.Store) {
			upsert(s, cache.NudgesKey(), match,
				func(*nudge.Nudge) *nudge.Nudge { return nil },
				func() *nudge.Nudge { return rec },
			)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			n, ok := confirmed.(*nudge.Nudge)
			if !ok || n == nil {
				return
			}
			reconcileList(s, cache.NudgesKey(), func(c *nudge.Nudge) bool {
				return c.Pending || c.ID == n.ID ||
					(c.ClientID != "" && c.ClientID == n.ClientID)
			}, n)
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, cache.NudgesKey(), match, &failed)
		},
	}
}
