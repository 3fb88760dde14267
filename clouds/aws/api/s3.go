package api

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"

	"tfadopt/internal/errors"
)

const s3Host = "s3.amazonaws.com"

// Bucket is a normalized S3 bucket
type Bucket struct {
	Name string
}

type listBucketsResponse struct {
	XMLName xml.Name `xml:"ListAllMyBucketsResult"`
	Buckets []struct {
		Name string `xml:"Name"`
	} `xml:"Buckets>Bucket"`
}

// ListBuckets returns every bucket owned by the account.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	body, err := c.get(ctx, "s3", s3Host, "/", nil)
	if err != nil {
		return nil, err
	}

	var resp listBucketsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, errors.Internal("failed to decode bucket list response", err)
	}

	buckets := make([]Bucket, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		buckets = append(buckets, Bucket{Name: b.Name})
	}
	return buckets, nil
}

// GetBucketPolicy returns the bucket policy JSON document, or "" when
// the bucket has none.
func (c *Client) GetBucketPolicy(ctx context.Context, bucket string) (string, error) {
	query := url.Values{}
	query.Set("policy", "")

	body, err := c.get(ctx, "s3", s3Host, "/"+bucket, query)
	if err != nil {
		// Buckets without a policy answer 404 NoSuchBucketPolicy.
		if statusError(err) == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return string(body), nil
}
