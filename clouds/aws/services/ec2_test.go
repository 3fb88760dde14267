package services

import (
	"context"
	"testing"

	"tfadopt/clouds/aws/api"
)

type fakeEC2 struct {
	instances []api.Instance
	volumes   []api.Volume
}

func (f *fakeEC2) DescribeInstances(ctx context.Context) ([]api.Instance, error) {
	return f.instances, nil
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context) ([]api.Volume, error) {
	return f.volumes, nil
}

// TestEC2VolumeConditionalFields proves iops/throughput are dropped for
// volume types that do not support them
func TestEC2VolumeConditionalFields(t *testing.T) {
	tests := []struct {
		name           string
		volumeType     string
		wantIOPS       bool
		wantThroughput bool
	}{
		{name: "gp2 drops both", volumeType: "gp2", wantIOPS: false, wantThroughput: false},
		{name: "gp3 keeps both", volumeType: "gp3", wantIOPS: true, wantThroughput: true},
		{name: "io1 keeps iops only", volumeType: "io1", wantIOPS: true, wantThroughput: false},
		{name: "io2 keeps iops only", volumeType: "io2", wantIOPS: true, wantThroughput: false},
		{name: "standard drops both", volumeType: "standard", wantIOPS: false, wantThroughput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEC2(&fakeEC2{
				volumes: []api.Volume{{
					ID: "vol-1", AvailabilityZone: "us-east-1a", Size: 100,
					Type: tt.volumeType, IOPS: 3000, Throughput: 125,
				}},
			})
			if err := s.InitResources(context.Background()); err != nil {
				t.Fatal(err)
			}
			if err := s.PostConvertHook(); err != nil {
				t.Fatal(err)
			}

			attrs := s.Resources()[0].Attributes
			if _, ok := attrs["iops"]; ok != tt.wantIOPS {
				t.Errorf("iops present = %v, want %v", ok, tt.wantIOPS)
			}
			if _, ok := attrs["throughput"]; ok != tt.wantThroughput {
				t.Errorf("throughput present = %v, want %v", ok, tt.wantThroughput)
			}
		})
	}
}

// TestEC2SkipsTerminatedInstances proves terminated instances are not
// adopted
func TestEC2SkipsTerminatedInstances(t *testing.T) {
	s := NewEC2(&fakeEC2{
		instances: []api.Instance{
			{ID: "i-1", InstanceType: "t3.micro", State: "running"},
			{ID: "i-2", InstanceType: "t3.micro", State: "terminated"},
		},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatal(err)
	}

	instances := s.FindByType(InstanceType)
	if len(instances) != 1 || instances[0].ID != "i-1" {
		t.Errorf("expected only the running instance, got %d", len(instances))
	}
}

// TestEC2InstanceNaming seeds local names with the Name tag plus the
// instance id
func TestEC2InstanceNaming(t *testing.T) {
	s := NewEC2(&fakeEC2{
		instances: []api.Instance{
			{ID: "i-1", State: "running", Tags: map[string]string{"Name": "Web Server"}},
			{ID: "i-2", State: "running"},
		},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatal(err)
	}

	instances := s.FindByType(InstanceType)
	if instances[0].Name != "web_server_i-1" {
		t.Errorf("name = %q, want web_server_i-1", instances[0].Name)
	}
	if instances[1].Name != "i-2" {
		t.Errorf("name = %q, want i-2", instances[1].Name)
	}
}

// TestEC2DuplicateNameTags proves instances and volumes sharing a Name
// tag still get distinct (type, name) addresses
func TestEC2DuplicateNameTags(t *testing.T) {
	tag := map[string]string{"Name": "web"}
	s := NewEC2(&fakeEC2{
		instances: []api.Instance{
			{ID: "i-1", State: "running", Tags: tag},
			{ID: "i-2", State: "running", Tags: tag},
		},
		volumes: []api.Volume{
			{ID: "vol-1", Type: "gp3", Tags: tag},
			{ID: "vol-2", Type: "gp3", Tags: tag},
		},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatal(err)
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
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct addresses, got %d", len(seen))
	}
}
