package api

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"

	"tfadopt/internal/errors"
)

const route53Host = "route53.amazonaws.com"
const route53APIVersion = "2013-04-01"

// HostedZone is a normalized Route 53 hosted zone
type HostedZone struct {
	// ID is the zone identifier without the "/hostedzone/" prefix
	ID string

	// Name is the zone name, with trailing dot
	Name string

	// Comment is the zone comment
	Comment string

	// Private marks a private hosted zone
	Private bool
}

// RecordSet is a normalized resource record set
type RecordSet struct {
	Name    string
	Type    string
	TTL     int64
	Records []string

	// Alias is non-nil for alias records
	Alias *AliasTarget
}

// AliasTarget is the alias part of an alias record
type AliasTarget struct {
	DNSName              string
	ZoneID               string
	EvaluateTargetHealth bool
}

type listHostedZonesResponse struct {
	XMLName     xml.Name `xml:"ListHostedZonesResponse"`
	IsTruncated bool     `xml:"IsTruncated"`
	NextMarker  string   `xml:"NextMarker"`
	Zones       []struct {
		ID     string `xml:"Id"`
		Name   string `xml:"Name"`
		Config struct {
			Comment     string `xml:"Comment"`
			PrivateZone bool   `xml:"PrivateZone"`
		} `xml:"Config"`
	} `xml:"HostedZones>HostedZone"`
}

type listRecordSetsResponse struct {
	XMLName            xml.Name `xml:"ListResourceRecordSetsResponse"`
	IsTruncated        bool     `xml:"IsTruncated"`
	NextRecordName     string   `xml:"NextRecordName"`
	NextRecordType     string   `xml:"NextRecordType"`
	ResourceRecordSets []struct {
		Name            string `xml:"Name"`
		Type            string `xml:"Type"`
		TTL             int64  `xml:"TTL"`
		ResourceRecords []struct {
			Value string `xml:"Value"`
		} `xml:"ResourceRecords>ResourceRecord"`
		AliasTarget *struct {
			HostedZoneID         string `xml:"HostedZoneId"`
			DNSName              string `xml:"DNSName"`
			EvaluateTargetHealth bool   `xml:"EvaluateTargetHealth"`
		} `xml:"AliasTarget"`
	} `xml:"ResourceRecordSets>ResourceRecordSet"`
}

// ListHostedZones returns every hosted zone, following pagination
// markers sequentially.
func (c *Client) ListHostedZones(ctx context.Context) ([]HostedZone, error) {
	var zones []HostedZone
	marker := ""
	for {
		query := url.Values{}
		if marker != "" {
			query.Set("marker", marker)
		}

		body, err := c.get(ctx, "route53", route53Host, "/"+route53APIVersion+"/hostedzone", query)
		if err != nil {
			return nil, err
		}

		var resp listHostedZonesResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode hosted zones response", err)
		}

		for _, z := range resp.Zones {
			zones = append(zones, HostedZone{
				ID:      strings.TrimPrefix(z.ID, "/hostedzone/"),
				Name:    z.Name,
				Comment: z.Config.Comment,
				Private: z.Config.PrivateZone,
			})
		}

		if !resp.IsTruncated || resp.NextMarker == "" {
			return zones, nil
		}
		marker = resp.NextMarker
	}
}

// ListRecordSets returns every record set of one hosted zone.
func (c *Client) ListRecordSets(ctx context.Context, zoneID string) ([]RecordSet, error) {
	var sets []RecordSet
	nextName, nextType := "", ""
	for {
		query := url.Values{}
		if nextName != "" {
			query.Set("name", nextName)
			query.Set("type", nextType)
		}

		path := "/" + route53APIVersion + "/hostedzone/" + zoneID + "/rrset"
		body, err := c.get(ctx, "route53", route53Host, path, query)
		if err != nil {
			return nil, err
		}

		var resp listRecordSetsResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode record sets response", err)
		}

		for _, rs := range resp.ResourceRecordSets {
			set := RecordSet{
				Name: rs.Name,
				Type: rs.Type,
				TTL:  rs.TTL,
			}
			for _, rr := range rs.ResourceRecords {
				set.Records = append(set.Records, rr.Value)
			}
			if rs.AliasTarget != nil {
				set.Alias = &AliasTarget{
					DNSName:              rs.AliasTarget.DNSName,
					ZoneID:               rs.AliasTarget.HostedZoneID,
					EvaluateTargetHealth: rs.AliasTarget.EvaluateTargetHealth,
				}
			}
			sets = append(sets, set)
		}

		if !resp.IsTruncated || resp.NextRecordName == "" {
			return sets, nil
		}
		nextName, nextType = resp.NextRecordName, resp.NextRecordType
	}
}
