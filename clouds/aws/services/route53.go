// Package services contains the AWS discovery adapters. Each adapter
// embeds the base provider.Service, maps one inspection API surface
// into normalized resources, and owns its post-convert hook. Adapters
// depend on narrow API interfaces so tests can substitute fakes.
package services

import (
	"context"
	"fmt"
	"strings"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/provider"
	"tfadopt/core/types"
)

// ZoneType is the hosted-zone configuration type
const ZoneType = "aws_route53_zone"

// RecordType is the record-set configuration type
const RecordType = "aws_route53_record"

// zoneIDField is the side-channel key hooks use to match a record's raw
// zone identifier against an in-set zone resource
const zoneIDField = "zone_id"

// Route53API is the inspection surface the route53 adapter consumes
type Route53API interface {
	ListHostedZones(ctx context.Context) ([]api.HostedZone, error)
	ListRecordSets(ctx context.Context, zoneID string) ([]api.RecordSet, error)
}

// Route53 discovers hosted zones and their record sets
type Route53 struct {
	provider.Service
	api Route53API
}

// NewRoute53 creates the route53 adapter
func NewRoute53(client Route53API) *Route53 {
	return &Route53{
		Service: provider.NewService("aws", "route53"),
		api:     client,
	}
}

// InitResources lists every hosted zone and, per zone, its record sets.
func (s *Route53) InitResources(ctx context.Context) error {
	zones, err := s.api.ListHostedZones(ctx)
	if err != nil {
		return err
	}

	for _, zone := range zones {
		s.Add(zoneResource(zone))

		sets, err := s.api.ListRecordSets(ctx, zone.ID)
		if err != nil {
			return err
		}
		for _, set := range sets {
			s.Add(recordResource(zone, set))
		}
	}
	return nil
}

func zoneResource(zone api.HostedZone) types.Resource {
	domain := strings.TrimSuffix(zone.Name, ".")

	// The zone id is part of the local name: the same domain can be
	// hosted as both a public and a private zone.
	localName := fmt.Sprintf("%s_%s", domain, zone.ID)
	r := types.NewResource(zone.ID, localName, ZoneType, "aws", map[string]interface{}{
		"name":    domain,
		"comment": zone.Comment,
	})
	r.SetAdditionalField(zoneIDField, zone.ID)
	r.AllowEmptyValues = []string{"^comment$"}
	return r
}

func recordResource(zone api.HostedZone, set api.RecordSet) types.Resource {
	recordName := strings.TrimSuffix(set.Name, ".")
	id := fmt.Sprintf("%s_%s_%s", zone.ID, recordName, set.Type)
	localName := id

	attributes := map[string]interface{}{
		"zone_id": zone.ID,
		"name":    recordName,
		"type":    set.Type,
		"ttl":     set.TTL,
	}
	if len(set.Records) > 0 {
		attributes["records"] = set.Records
	}
	if set.Alias != nil {
		attributes["alias"] = map[string]interface{}{
			"name":                   set.Alias.DNSName,
			"zone_id":                set.Alias.ZoneID,
			"evaluate_target_health": set.Alias.EvaluateTargetHealth,
		}
	}

	return types.NewResource(id, localName, RecordType, "aws", attributes)
}

// PostConvertHook rewrites each record's raw zone identifier into a
// reference to the matching in-set zone resource, and drops the TTL of
// alias records (an alias carries no TTL of its own). A record whose
// zone is not in the set keeps its literal identifier.
func (s *Route53) PostConvertHook() error {
	s.EachUnprocessed(func(r *types.Resource) {
		if r.Type != RecordType {
			return
		}

		if zoneID, ok := r.Attributes["zone_id"].(string); ok {
			if zone := s.FindByAdditionalField(zoneIDField, zoneID); zone != nil {
				r.Attributes["zone_id"] = types.ReferenceExpr(zone.Type, zone.Name, "zone_id")
			}
		}

		if _, hasAlias := r.Attributes["alias"]; hasAlias {
			delete(r.Attributes, "ttl")
		}
	})
	return nil
}
