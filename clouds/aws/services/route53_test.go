package services

import (
	"context"
	"testing"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/types"
)

type fakeRoute53 struct {
	zones   []api.HostedZone
	records map[string][]api.RecordSet
}

func (f *fakeRoute53) ListHostedZones(ctx context.Context) ([]api.HostedZone, error) {
	return f.zones, nil
}

func (f *fakeRoute53) ListRecordSets(ctx context.Context, zoneID string) ([]api.RecordSet, error) {
	return f.records[zoneID], nil
}

func discoverRoute53(t *testing.T) *Route53 {
	t.Helper()
	s := NewRoute53(&fakeRoute53{
		zones: []api.HostedZone{
			{ID: "Z123", Name: "example.com.", Comment: "main zone"},
		},
		records: map[string][]api.RecordSet{
			"Z123": {
				{Name: "www.example.com.", Type: "A", TTL: 300, Records: []string{"192.0.2.1"}},
				{Name: "app.example.com.", Type: "A", Alias: &api.AliasTarget{
					DNSName: "lb.example.com", ZoneID: "ZALIAS",
				}},
			},
		},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatalf("InitResources failed: %v", err)
	}
	return s
}

// TestRoute53ZoneReferenceRewrite proves a record's raw zone id becomes
// a reference to the in-set zone resource
func TestRoute53ZoneReferenceRewrite(t *testing.T) {
	s := discoverRoute53(t)
	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("PostConvertHook failed: %v", err)
	}

	records := s.FindByType(RecordType)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	zones := s.FindByType(ZoneType)
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}

	want := types.ReferenceExpr(ZoneType, zones[0].Name, "zone_id")
	for _, r := range records {
		if r.Attributes["zone_id"] != want {
			t.Errorf("zone_id = %v, want %s", r.Attributes["zone_id"], want)
		}
	}
}

// TestRoute53UnknownZoneKeepsLiteral proves a lookup miss is non-fatal
// and leaves the literal id untouched
func TestRoute53UnknownZoneKeepsLiteral(t *testing.T) {
	s := NewRoute53(&fakeRoute53{})
	r := types.NewResource("Z9_www_A", "www_a", RecordType, "aws", map[string]interface{}{
		"zone_id": "Z999",
		"name":    "www",
		"type":    "A",
	})
	s.Add(r)

	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("PostConvertHook failed: %v", err)
	}
	if got := s.Resources()[0].Attributes["zone_id"]; got != "Z999" {
		t.Errorf("zone_id = %v, want the untouched literal", got)
	}
}

// TestRoute53AliasDropsTTL proves alias records lose their TTL field
func TestRoute53AliasDropsTTL(t *testing.T) {
	s := discoverRoute53(t)
	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("PostConvertHook failed: %v", err)
	}

	for _, r := range s.FindByType(RecordType) {
		_, hasAlias := r.Attributes["alias"]
		_, hasTTL := r.Attributes["ttl"]
		if hasAlias && hasTTL {
			t.Errorf("alias record %s kept its ttl", r.Name)
		}
		if !hasAlias && !hasTTL {
			t.Errorf("plain record %s lost its ttl", r.Name)
		}
	}
}

// TestRoute53HookIdempotent proves running the hook twice changes nothing
func TestRoute53HookIdempotent(t *testing.T) {
	s := discoverRoute53(t)
	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("first hook failed: %v", err)
	}

	first := make(map[string]interface{})
	for _, r := range s.Resources() {
		first[r.Address()] = r.Attributes["zone_id"]
	}

	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("second hook failed: %v", err)
	}
	for _, r := range s.Resources() {
		if r.Attributes["zone_id"] != first[r.Address()] {
			t.Errorf("%s: zone_id changed on repeat invocation: %v", r.Address(), r.Attributes["zone_id"])
		}
	}
}

// TestRoute53SplitHorizonUniqueNames proves a public and a private zone
// for the same domain never collide on (type, name), nor do their
// records
func TestRoute53SplitHorizonUniqueNames(t *testing.T) {
	record := api.RecordSet{Name: "www.example.com.", Type: "A", TTL: 300, Records: []string{"192.0.2.1"}}
	s := NewRoute53(&fakeRoute53{
		zones: []api.HostedZone{
			{ID: "Z1PUBLIC", Name: "example.com."},
			{ID: "Z2PRIVATE", Name: "example.com.", Private: true},
		},
		records: map[string][]api.RecordSet{
			"Z1PUBLIC":  {record},
			"Z2PRIVATE": {record},
		},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatalf("InitResources failed: %v", err)
	}

	seen := make(map[string]int)
	for _, r := range s.Resources() {
		seen[r.Address()]++
	}
	for address, count := range seen {
		if count > 1 {
			t.Errorf("address %s produced %d times", address, count)
		}
	}
	if len(s.FindByType(ZoneType)) != 2 || len(s.FindByType(RecordType)) != 2 {
		t.Fatalf("expected 2 zones and 2 records, got %d resources", len(s.Resources()))
	}

	// Each record must reference its own zone after the rewrite.
	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("PostConvertHook failed: %v", err)
	}
	refs := make(map[interface{}]bool)
	for _, r := range s.FindByType(RecordType) {
		refs[r.Attributes["zone_id"]] = true
	}
	if len(refs) != 2 {
		t.Errorf("records must reference distinct zones, got %d references", len(refs))
	}
}

// TestRoute53ResourceShape checks discovery output naming
func TestRoute53ResourceShape(t *testing.T) {
	s := discoverRoute53(t)

	zones := s.FindByType(ZoneType)
	if zones[0].Name != "example_com_z123" {
		t.Errorf("zone name = %q, want example_com_z123", zones[0].Name)
	}
	if zones[0].ID != "Z123" {
		t.Errorf("zone id = %q, want Z123", zones[0].ID)
	}
	if zones[0].AdditionalField("zone_id") != "Z123" {
		t.Errorf("zone side-channel key missing")
	}
	if zones[0].Attributes["name"] != "example.com" {
		t.Errorf("trailing dot not trimmed: %v", zones[0].Attributes["name"])
	}
}
