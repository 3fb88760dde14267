package api

import (
	"context"
	"encoding/xml"
	"net/url"

	"tfadopt/internal/errors"
)

const iamHost = "iam.amazonaws.com"
const iamAPIVersion = "2010-05-08"

// Role is a normalized IAM role
type Role struct {
	Name string
	Path string

	// AssumeRolePolicy is the trust policy document, URL-decoded JSON
	AssumeRolePolicy string

	Description        string
	MaxSessionDuration int64
}

// ManagedPolicy is a normalized customer-managed IAM policy
type ManagedPolicy struct {
	Name        string
	ARN         string
	Path        string
	Description string

	// Document is the default policy version document, URL-decoded JSON
	Document string
}

type listRolesResponse struct {
	XMLName     xml.Name `xml:"ListRolesResponse"`
	IsTruncated bool     `xml:"ListRolesResult>IsTruncated"`
	Marker      string   `xml:"ListRolesResult>Marker"`
	Roles       []struct {
		RoleName                 string `xml:"RoleName"`
		Path                     string `xml:"Path"`
		AssumeRolePolicyDocument string `xml:"AssumeRolePolicyDocument"`
		Description              string `xml:"Description"`
		MaxSessionDuration       int64  `xml:"MaxSessionDuration"`
	} `xml:"ListRolesResult>Roles>member"`
}

type listPoliciesResponse struct {
	XMLName     xml.Name `xml:"ListPoliciesResponse"`
	IsTruncated bool     `xml:"ListPoliciesResult>IsTruncated"`
	Marker      string   `xml:"ListPoliciesResult>Marker"`
	Policies    []struct {
		PolicyName       string `xml:"PolicyName"`
		Arn              string `xml:"Arn"`
		Path             string `xml:"Path"`
		Description      string `xml:"Description"`
		DefaultVersionID string `xml:"DefaultVersionId"`
	} `xml:"ListPoliciesResult>Policies>member"`
}

type getPolicyVersionResponse struct {
	XMLName  xml.Name `xml:"GetPolicyVersionResponse"`
	Document string   `xml:"GetPolicyVersionResult>PolicyVersion>Document"`
}

// ListRoles returns every IAM role with its decoded trust policy.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	marker := ""
	for {
		query := url.Values{}
		query.Set("Action", "ListRoles")
		query.Set("Version", iamAPIVersion)
		if marker != "" {
			query.Set("Marker", marker)
		}

		body, err := c.get(ctx, "iam", iamHost, "/", query)
		if err != nil {
			return nil, err
		}

		var resp listRolesResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode roles response", err)
		}

		for _, r := range resp.Roles {
			doc, err := url.QueryUnescape(r.AssumeRolePolicyDocument)
			if err != nil {
				doc = r.AssumeRolePolicyDocument
			}
			roles = append(roles, Role{
				Name:               r.RoleName,
				Path:               r.Path,
				AssumeRolePolicy:   doc,
				Description:        r.Description,
				MaxSessionDuration: r.MaxSessionDuration,
			})
		}

		if !resp.IsTruncated || resp.Marker == "" {
			return roles, nil
		}
		marker = resp.Marker
	}
}

// ListPolicies returns every customer-managed policy with the document
// of its default version. Each policy costs one follow-up call, issued
// sequentially.
func (c *Client) ListPolicies(ctx context.Context) ([]ManagedPolicy, error) {
	var policies []ManagedPolicy
	marker := ""
	for {
		query := url.Values{}
		query.Set("Action", "ListPolicies")
		query.Set("Version", iamAPIVersion)
		query.Set("Scope", "Local")
		if marker != "" {
			query.Set("Marker", marker)
		}

		body, err := c.get(ctx, "iam", iamHost, "/", query)
		if err != nil {
			return nil, err
		}

		var resp listPoliciesResponse
		if err := xml.Unmarshal(body, &resp); err != nil {
			return nil, errors.Internal("failed to decode policies response", err)
		}

		for _, p := range resp.Policies {
			doc, err := c.getPolicyDocument(ctx, p.Arn, p.DefaultVersionID)
			if err != nil {
				return nil, err
			}
			policies = append(policies, ManagedPolicy{
				Name:        p.PolicyName,
				ARN:         p.Arn,
				Path:        p.Path,
				Description: p.Description,
				Document:    doc,
			})
		}

		if !resp.IsTruncated || resp.Marker == "" {
			return policies, nil
		}
		marker = resp.Marker
	}
}

func (c *Client) getPolicyDocument(ctx context.Context, arn, versionID string) (string, error) {
	query := url.Values{}
	query.Set("Action", "GetPolicyVersion")
	query.Set("Version", iamAPIVersion)
	query.Set("PolicyArn", arn)
	query.Set("VersionId", versionID)

	body, err := c.get(ctx, "iam", iamHost, "/", query)
	if err != nil {
		return "", err
	}

	var resp getPolicyVersionResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return "", errors.Internal("failed to decode policy version response", err)
	}

	doc, err := url.QueryUnescape(resp.Document)
	if err != nil {
		return resp.Document, nil
	}
	return doc, nil
}
