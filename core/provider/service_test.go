package provider

import (
	"testing"

	"tfadopt/core/types"
)

func newTestService(ids ...string) Service {
	s := NewService("fake", "things")
	for _, id := range ids {
		s.Add(types.NewResource(id, id, "fake_thing", "fake", map[string]interface{}{"id": id}))
	}
	return s
}

// TestApplyFilters prunes resources that fail an armed predicate
func TestApplyFilters(t *testing.T) {
	s := newTestService("i-1", "i-2", "i-3")
	s.ParseFilters([]string{"things=i-1:i-3"})
	s.ApplyFilters()

	resources := s.Resources()
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources after filtering, got %d", len(resources))
	}
	if resources[0].ID != "i-1" || resources[1].ID != "i-3" {
		t.Errorf("wrong survivors: %s, %s", resources[0].ID, resources[1].ID)
	}
}

// TestApplyFiltersNoPredicates proves an unarmed service keeps everything
func TestApplyFiltersNoPredicates(t *testing.T) {
	s := newTestService("i-1", "i-2")
	s.ApplyFilters()
	if len(s.Resources()) != 2 {
		t.Errorf("unfiltered service lost resources: %d", len(s.Resources()))
	}
}

// TestEachUnprocessedRunsOnce proves the processed flag guards repeats
func TestEachUnprocessedRunsOnce(t *testing.T) {
	s := newTestService("i-1", "i-2")

	calls := 0
	s.EachUnprocessed(func(r *types.Resource) { calls++ })
	if calls != 2 {
		t.Fatalf("first pass visited %d resources, want 2", calls)
	}

	s.EachUnprocessed(func(r *types.Resource) { calls++ })
	if calls != 2 {
		t.Errorf("second pass revisited resources, total calls %d", calls)
	}

	// a resource added after the first pass is still picked up
	s.Add(types.NewResource("i-3", "i-3", "fake_thing", "fake", nil))
	s.EachUnprocessed(func(r *types.Resource) { calls++ })
	if calls != 3 {
		t.Errorf("late addition not visited, total calls %d", calls)
	}
}

// TestFindByAdditionalField covers the side-channel lookup
func TestFindByAdditionalField(t *testing.T) {
	s := NewService("fake", "things")
	r := types.NewResource("Z1", "one", "fake_zone", "fake", nil)
	r.SetAdditionalField("zone_id", "Z1")
	s.Add(r)

	if found := s.FindByAdditionalField("zone_id", "Z1"); found == nil || found.ID != "Z1" {
		t.Errorf("lookup miss for present value: %v", found)
	}
	if found := s.FindByAdditionalField("zone_id", "Z9"); found != nil {
		t.Errorf("lookup hit for absent value: %v", found)
	}
}
