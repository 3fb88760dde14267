package services

import (
	"context"
	"testing"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/types"
)

type fakeIAM struct {
	roles    []api.Role
	policies []api.ManagedPolicy
}

func (f *fakeIAM) ListRoles(ctx context.Context) ([]api.Role, error) {
	return f.roles, nil
}

func (f *fakeIAM) ListPolicies(ctx context.Context) ([]api.ManagedPolicy, error) {
	return f.policies, nil
}

func discoverIAM(t *testing.T) *IAM {
	t.Helper()
	s := NewIAM(&fakeIAM{
		roles: []api.Role{{
			Name:               "app-runner",
			Path:               "/",
			AssumeRolePolicy:   `{"Statement":[{"Principal":{"Service":"ec2.amazonaws.com"}}]}`,
			MaxSessionDuration: 7200,
		}},
		policies: []api.ManagedPolicy{{
			Name:     "read-logs",
			ARN:      "arn:aws:iam::123456789012:policy/read-logs",
			Path:     "/",
			Document: `{"Statement":[{"Condition":{"StringEquals":{"aws:username":"${aws:username}"}}}]}`,
		}},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatalf("InitResources failed: %v", err)
	}
	return s
}

// TestIAMPolicyDocumentsWrapped proves both document kinds come out as
// escaped heredocs
func TestIAMPolicyDocumentsWrapped(t *testing.T) {
	s := discoverIAM(t)
	if err := s.PostConvertHook(); err != nil {
		t.Fatalf("PostConvertHook failed: %v", err)
	}

	roles := s.FindByType(RoleType)
	if len(roles) != 1 {
		t.Fatalf("expected 1 role, got %d", len(roles))
	}
	if _, ok := roles[0].Attributes["assume_role_policy"].(types.Heredoc); !ok {
		t.Errorf("assume_role_policy not wrapped: %T", roles[0].Attributes["assume_role_policy"])
	}

	policies := s.FindByType(PolicyType)
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	doc, ok := policies[0].Attributes["policy"].(types.Heredoc)
	if !ok {
		t.Fatalf("policy not wrapped: %T", policies[0].Attributes["policy"])
	}
	if string(doc) == "" || string(doc)[0] != '{' {
		t.Errorf("policy document mangled: %s", doc)
	}
}

// TestIAMHookIdempotent proves a second hook run leaves documents alone
func TestIAMHookIdempotent(t *testing.T) {
	s := discoverIAM(t)
	if err := s.PostConvertHook(); err != nil {
		t.Fatal(err)
	}

	first := make(map[string]interface{})
	for _, r := range s.Resources() {
		first[r.Address()] = r.Attributes["policy"]
	}

	if err := s.PostConvertHook(); err != nil {
		t.Fatal(err)
	}
	for _, r := range s.Resources() {
		if r.Attributes["policy"] != first[r.Address()] {
			t.Errorf("%s: policy changed on repeat invocation", r.Address())
		}
	}
}

// TestIAMResourceShape checks discovery output attributes
func TestIAMResourceShape(t *testing.T) {
	s := discoverIAM(t)

	roles := s.FindByType(RoleType)
	if roles[0].Name != "app-runner" {
		t.Errorf("role name = %q, want app-runner", roles[0].Name)
	}
	if roles[0].Attributes["max_session_duration"] != int64(7200) {
		t.Errorf("max_session_duration missing: %v", roles[0].Attributes)
	}

	policies := s.FindByType(PolicyType)
	if policies[0].AdditionalField("arn") != "arn:aws:iam::123456789012:policy/read-logs" {
		t.Error("policy arn side-channel key missing")
	}
	if policies[0].ID != "arn:aws:iam::123456789012:policy/read-logs" {
		t.Errorf("policy id = %q, want the arn", policies[0].ID)
	}
}

// TestIAMOmitsZeroSessionDuration proves the attribute is conditional
func TestIAMOmitsZeroSessionDuration(t *testing.T) {
	s := NewIAM(&fakeIAM{
		roles: []api.Role{{Name: "basic", Path: "/", AssumeRolePolicy: "{}"}},
	})
	if err := s.InitResources(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Resources()[0].Attributes["max_session_duration"]; ok {
		t.Error("zero max_session_duration must not be emitted")
	}
}
