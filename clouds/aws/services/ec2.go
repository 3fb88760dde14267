package services

import (
	"context"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/provider"
	"tfadopt/core/types"
)

// InstanceType is the EC2 instance configuration type
const InstanceType = "aws_instance"

// VolumeType is the EBS volume configuration type
const VolumeType = "aws_ebs_volume"

// volumeTypesWithIOPS lists EBS volume types that accept a provisioned
// IOPS setting; the attribute is meaningless on the others.
var volumeTypesWithIOPS = map[string]bool{
	"io1": true,
	"io2": true,
	"gp3": true,
}

// EC2API is the inspection surface the ec2 adapter consumes
type EC2API interface {
	DescribeInstances(ctx context.Context) ([]api.Instance, error)
	DescribeVolumes(ctx context.Context) ([]api.Volume, error)
}

// EC2 discovers instances and EBS volumes
type EC2 struct {
	provider.Service
	api EC2API
}

// NewEC2 creates the ec2 adapter
func NewEC2(client EC2API) *EC2 {
	return &EC2{
		Service: provider.NewService("aws", "ec2"),
		api:     client,
	}
}

// InitResources describes instances and volumes in the configured
// region. Terminated instances are skipped; they have no adoptable
// configuration.
func (s *EC2) InitResources(ctx context.Context) error {
	instances, err := s.api.DescribeInstances(ctx)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		if inst.State == "terminated" {
			continue
		}
		s.Add(instanceResource(inst))
	}

	volumes, err := s.api.DescribeVolumes(ctx)
	if err != nil {
		return err
	}
	for _, volume := range volumes {
		s.Add(volumeResource(volume))
	}
	return nil
}

func instanceResource(inst api.Instance) types.Resource {
	name := localName(inst.Tags["Name"], inst.ID)

	attributes := map[string]interface{}{
		"ami":               inst.ImageID,
		"instance_type":     inst.InstanceType,
		"subnet_id":         inst.SubnetID,
		"key_name":          inst.KeyName,
		"availability_zone": inst.AvailabilityZone,
	}
	if len(inst.Tags) > 0 {
		attributes["tags"] = inst.Tags
	}

	r := types.NewResource(inst.ID, name, InstanceType, "aws", attributes)
	r.SetAdditionalField("state", inst.State)
	return r
}

// localName seeds the local symbol with the native id. Name tags are
// not unique (autoscaled fleets share one), so the tag alone cannot
// keep (type, name) addresses distinct.
func localName(tag, id string) string {
	if tag == "" {
		return id
	}
	return tag + "_" + id
}

func volumeResource(volume api.Volume) types.Resource {
	name := localName(volume.Tags["Name"], volume.ID)

	attributes := map[string]interface{}{
		"availability_zone": volume.AvailabilityZone,
		"size":              volume.Size,
		"type":              volume.Type,
		"iops":              volume.IOPS,
		"throughput":        volume.Throughput,
		"encrypted":         volume.Encrypted,
	}
	if len(volume.Tags) > 0 {
		attributes["tags"] = volume.Tags
	}

	return types.NewResource(volume.ID, name, VolumeType, "aws", attributes)
}

// PostConvertHook removes storage settings that the volume type does
// not support: IOPS outside io1/io2/gp3, throughput outside gp3.
func (s *EC2) PostConvertHook() error {
	s.EachUnprocessed(func(r *types.Resource) {
		if r.Type != VolumeType {
			return
		}

		volumeType, _ := r.Attributes["type"].(string)
		if !volumeTypesWithIOPS[volumeType] {
			delete(r.Attributes, "iops")
		}
		if volumeType != "gp3" {
			delete(r.Attributes, "throughput")
		}
	})
	return nil
}
