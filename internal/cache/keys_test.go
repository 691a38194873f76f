package cache

import "testing"

func TestKeyConstructorsAreDeterministic(t *testing.T) {
	if GoalKey("g1").String() != GoalKey("g1").String() {
		t.Fatal("same inputs produced different keys")
	}
	if TrackingStatsKey("g1", "meal", 30).String() != "tracking/g1/meal/stats/30" {
		t.Fatalf("unexpected stats key: %s", TrackingStatsKey("g1", "meal", 30))
	}
}

func TestOptionalParamStaysDistinct(t *testing.T) {
	all := CheckInsKey("goal", "")
	scoped := CheckInsKey("goal", "g1")
	if all.String() == scoped.String() {
		t.Fatal("omitted entity id collides with a scoped key")
	}
	if all.String() != "check-ins/goal/all" {
		t.Fatalf("unexpected unscoped key: %s", all)
	}
}

func TestParentSegmentsComeFirst(t *testing.T) {
	cases := []struct {
		child  Key
		parent Key
	}{
		{GoalKey("g1"), GoalsKey()},
		{TrackingLogsKey("g1", "meal"), TrackingPrefix("g1")},
		{TrackingStatsKey("g1", "meal", 7), TrackingPrefix("g1")},
		{ChallengeKey("c1"), ChallengesKey()},
	}
	for _, tc := range cases {
		if !tc.child.hasPrefix(tc.parent) {
			t.Errorf("key %s does not extend its parent %s", tc.child, tc.parent)
		}
	}
}
