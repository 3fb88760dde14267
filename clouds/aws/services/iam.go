package services

import (
	"context"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/provider"
	"tfadopt/core/types"
)

// RoleType is the IAM role configuration type
const RoleType = "aws_iam_role"

// PolicyType is the managed-policy configuration type
const PolicyType = "aws_iam_policy"

// IAMAPI is the inspection surface the iam adapter consumes
type IAMAPI interface {
	ListRoles(ctx context.Context) ([]api.Role, error)
	ListPolicies(ctx context.Context) ([]api.ManagedPolicy, error)
}

// IAM discovers roles and customer-managed policies
type IAM struct {
	provider.Service
	api IAMAPI
}

// NewIAM creates the iam adapter
func NewIAM(client IAMAPI) *IAM {
	return &IAM{
		Service: provider.NewService("aws", "iam"),
		api:     client,
	}
}

// InitResources lists roles and managed policies with their documents.
func (s *IAM) InitResources(ctx context.Context) error {
	roles, err := s.api.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, role := range roles {
		attributes := map[string]interface{}{
			"name":               role.Name,
			"path":               role.Path,
			"assume_role_policy": role.AssumeRolePolicy,
			"description":        role.Description,
		}
		if role.MaxSessionDuration > 0 {
			attributes["max_session_duration"] = role.MaxSessionDuration
		}
		s.Add(types.NewResource(role.Name, role.Name, RoleType, "aws", attributes))
	}

	policies, err := s.api.ListPolicies(ctx)
	if err != nil {
		return err
	}
	for _, policy := range policies {
		r := types.NewResource(policy.ARN, policy.Name, PolicyType, "aws", map[string]interface{}{
			"name":        policy.Name,
			"path":        policy.Path,
			"policy":      policy.Document,
			"description": policy.Description,
		})
		r.SetAdditionalField("arn", policy.ARN)
		s.Add(r)
	}
	return nil
}

// PostConvertHook wraps every policy document for verbatim output.
func (s *IAM) PostConvertHook() error {
	s.EachUnprocessed(func(r *types.Resource) {
		for _, key := range []string{"assume_role_policy", "policy"} {
			if doc, ok := r.Attributes[key]; ok {
				r.Attributes[key] = types.WrapPolicy(doc)
			}
		}
	})
	return nil
}
