package optimistic

import (
	"testing"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/challenge"
	"habitFlowClient/internal/types/partner"
)

func TestJoinChallengeRollbackMarksMembershipFailed(t *testing.T) {
	s := cache.NewStore()
	s.Set(cache.MembershipsKey(), []*challenge.Membership{})

	p := NewProtocol(s)
	token := p.Begin(JoinChallengeAction("ch-1"))

	members, _ := cache.GetAs[[]*challenge.Membership](s, cache.MembershipsKey())
	if len(members) != 1 || !members[0].Pending {
		t.Fatalf("expected one pending membership after join, got %+v", members)
	}

	p.Rollback(token)

	members, _ = cache.GetAs[[]*challenge.Membership](s, cache.MembershipsKey())
	if len(members) != 1 {
		t.Fatalf("rolled-back join left %d memberships, want the failed placeholder", len(members))
	}
	got := members[0]
	if !got.Failed {
		t.Fatal("rolled-back join must surface a failed membership for retry")
	}
	if got.ChallengeID != "ch-1" {
		t.Fatalf("failed placeholder carries challenge %q, want ch-1", got.ChallengeID)
	}
}

func TestAddPartnerRollbackMarksInviteFailed(t *testing.T) {
	s := cache.NewStore()
	s.Set(cache.PartnersKey(), []*partner.Partner{})

	p := NewProtocol(s)
	token := p.Begin(AddPartnerAction("partner-1"))

	list, _ := cache.GetAs[[]*partner.Partner](s, cache.PartnersKey())
	if len(list) != 1 || !list[0].Pending {
		t.Fatalf("expected one pending invite after add, got %+v", list)
	}

	p.Rollback(token)

	list, _ = cache.GetAs[[]*partner.Partner](s, cache.PartnersKey())
	if len(list) != 1 {
		t.Fatalf("rejected invite vanished: %d partners after rollback", len(list))
	}
	got := list[0]
	if !got.Failed {
		t.Fatal("rolled-back invite must surface a failed partner row for retry")
	}
	if got.ID != "partner-1" || got.Status != partner.StatusPending {
		t.Fatalf("got %+v, want the failed invite for partner-1", got)
	}
}

func TestAddPartnerReconcileReplacesPending(t *testing.T) {
	s := cache.NewStore()
	s.Set(cache.PartnersKey(), []*partner.Partner{})

	p := NewProtocol(s)
	token := p.Begin(AddPartnerAction("partner-1"))

	confirmed := &partner.Partner{ID: "partner-1", Username: "sam", Status: partner.StatusAccepted}
	p.Commit(token, confirmed)

	list, _ := cache.GetAs[[]*partner.Partner](s, cache.PartnersKey())
	if len(list) != 1 {
		t.Fatalf("got %d partners after reconcile, want 1", len(list))
	}
	if list[0].Pending || list[0].Failed || list[0].Username != "sam" {
		t.Fatalf("reconcile kept speculative state: %+v", list[0])
	}
}
