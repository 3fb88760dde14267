package services

import (
	"context"

	"go.uber.org/zap"

	"tfadopt/clouds/aws/api"
	"tfadopt/core/provider"
	"tfadopt/core/types"
	"tfadopt/internal/logging"
)

// BucketType is the bucket configuration type
const BucketType = "aws_s3_bucket"

// S3API is the inspection surface the s3 adapter consumes
type S3API interface {
	ListBuckets(ctx context.Context) ([]api.Bucket, error)
	GetBucketPolicy(ctx context.Context, bucket string) (string, error)
}

// S3 discovers buckets and their policies
type S3 struct {
	provider.Service
	api S3API
}

// NewS3 creates the s3 adapter
func NewS3(client S3API) *S3 {
	return &S3{
		Service: provider.NewService("aws", "s3"),
		api:     client,
	}
}

// InitResources lists buckets and fetches each bucket's policy. A
// failed policy fetch only costs that bucket its policy attribute; the
// bucket itself is still discovered.
func (s *S3) InitResources(ctx context.Context) error {
	buckets, err := s.api.ListBuckets(ctx)
	if err != nil {
		return err
	}

	for _, bucket := range buckets {
		attributes := map[string]interface{}{
			"bucket": bucket.Name,
		}

		policy, err := s.api.GetBucketPolicy(ctx, bucket.Name)
		if err != nil {
			logging.Debug("bucket policy fetch failed",
				zap.String("bucket", bucket.Name), zap.Error(err))
		} else if policy != "" {
			attributes["policy"] = policy
		}

		s.Add(types.NewResource(bucket.Name, bucket.Name, BucketType, "aws", attributes))
	}
	return nil
}

// PostConvertHook wraps bucket policies for verbatim output.
func (s *S3) PostConvertHook() error {
	s.EachUnprocessed(func(r *types.Resource) {
		if policy, ok := r.Attributes["policy"]; ok {
			r.Attributes["policy"] = types.WrapPolicy(policy)
		}
	})
	return nil
}
