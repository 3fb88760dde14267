package api

import (
	"context"
	"encoding/xml"
	"net/url"

	"tfadopt/internal/errors"
)

const ec2APIVersion = "2016-11-15"

// Instance is a normalized EC2 instance
type Instance struct {
	ID               string
	ImageID          string
	InstanceType     string
	SubnetID         string
	KeyName          string
	AvailabilityZone string
	State            string
	Tags             map[string]string
}

// Volume is a normalized EBS volume
type Volume struct {
	ID               string
	AvailabilityZone string
	Size             int64
	Type             string
	IOPS             int64
	Throughput       int64
	Encrypted        bool
	Tags             map[string]string
}

type ec2Tag struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

type describeInstancesResponse struct {
	XMLName      xml.Name `xml:"DescribeInstancesResponse"`
	NextToken    string   `xml:"nextToken"`
	Reservations []struct {
		Instances []struct {
			InstanceID   string `xml:"instanceId"`
			ImageID      string `xml:"imageId"`
			InstanceType string `xml:"instanceType"`
			SubnetID     string `xml:"subnetId"`
			KeyName      string `xml:"keyName"`
			State        struct {
				Name string `xml:"name"`
			} `xml:"instanceState"`
			Placement struct {
				AvailabilityZone string `xml:"availabilityZone"`
			} `xml:"placement"`
			Tags []ec2Tag `xml:"tagSet>item"`
		} `xml:"instancesSet>item"`
	} `xml:"reservationSet>item"`
}

type describeVolumesResponse struct {
	XMLName   xml.Name `xml:"DescribeVolumesResponse"`
	NextToken string   `xml:"nextToken"`
	Volumes   []struct {
		VolumeID         string   `xml:"volumeId"`
		AvailabilityZone string   `xml:"availabilityZone"`
		Size             int64    `xml:"size"`
		VolumeType       string   `xml:"volumeType"`
		IOPS             int64    `xml:"iops"`
		Throughput       int64    `xml:"throughput"`
		Encrypted        bool     `xml:"encrypted"`
		Tags             []ec2Tag `xml:"tagSet>item"`
	} `xml:"volumeSet>item"`
}

func (c *Client) ec2Host() string {
	return "ec2." + c.cfg.Region + ".amazonaws.com"
}

// DescribeInstances returns every instance in the configured region.
func (c *Client) DescribeInstances(ctx context.Context) ([]Instance, error) {
	var instances []Instance
	token := ""
	for {
		query := url.Values{}
		query.Set("Action", "DescribeInstances")
		query.Set("Version", ec2APIVersion)
		if token != "" {
			query.Set("NextToken", token)
		}

		body, err := c.get(ctx, "ec2", c.ec2Host(), "/", query)
		if err != nil {
			return nil, err
		}

		var resp describeInstancesResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode instances response", err)
		}

		for _, reservation := range resp.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, Instance{
					ID:               inst.InstanceID,
					ImageID:          inst.ImageID,
					InstanceType:     inst.InstanceType,
					SubnetID:         inst.SubnetID,
					KeyName:          inst.KeyName,
					AvailabilityZone: inst.Placement.AvailabilityZone,
					State:            inst.State.Name,
					Tags:             tagMap(inst.Tags),
				})
			}
		}

		if resp.NextToken == "" {
			return instances, nil
		}
		token = resp.NextToken
	}
}

// DescribeVolumes returns every EBS volume in the configured region.
func (c *Client) DescribeVolumes(ctx context.Context) ([]Volume, error) {
	var volumes []Volume
	token := ""
	for {
		query := url.Values{}
		query.Set("Action", "DescribeVolumes")
		query.Set("Version", ec2APIVersion)
		if token != "" {
			query.Set("NextToken", token)
		}

		body, err := c.get(ctx, "ec2", c.ec2Host(), "/", query)
		if err != nil {
			return nil, err
		}

		var resp describeVolumesResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode volumes response", err)
		}

		for _, v := range resp.Volumes {
			volumes = append(volumes, Volume{
				ID:               v.VolumeID,
				AvailabilityZone: v.AvailabilityZone,
				Size:             v.Size,
				Type:             v.VolumeType,
				IOPS:             v.IOPS,
				Throughput:       v.Throughput,
				Encrypted:        v.Encrypted,
				Tags:             tagMap(v.Tags),
			})
		}

		if resp.NextToken == "" {
			return volumes, nil
		}
		token = resp.NextToken
	}
}

func tagMap(tags []ec2Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return m
}
