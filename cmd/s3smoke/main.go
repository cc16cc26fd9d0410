// s3smoke drives a running s3gwd instance with the real AWS SDK, the
// server-side mirror of the teacher's client-side synthetic check
// (internal/executor/s3_executor.go): same custom-endpoint config
// construction, same "disable SDK checksum calculation" compatibility
// note, but proving wire compatibility against our own dispatcher
// instead of a remote gateway.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8443", "s3gwd listen address")
	accessKey := flag.String("access-key", "", "access key ID configured on s3gwd")
	secretKey := flag.String("secret-key", "", "secret key configured on s3gwd")
	region := flag.String("region", "us-east-1", "region")
	bucket := flag.String("bucket", "s3smoke", "bucket to exercise")
	key := flag.String("key", "smoke-object.txt", "object key to exercise")
	flag.Parse()

	if *accessKey == "" || *secretKey == "" {
		log.Fatal("s3smoke: -access-key and -secret-key are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := newConfig(ctx, *endpoint, *accessKey, *secretKey, *region)
	if err != nil {
		log.Fatalf("s3smoke: building AWS config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	if err := run(ctx, client, *bucket, *key); err != nil {
		log.Fatalf("s3smoke: %v", err)
	}
	log.Println("s3smoke: all operations succeeded")
}

// newConfig mirrors the teacher's awsConfig helper: a custom endpoint
// resolver for path-style addressing against a non-AWS gateway, static
// credentials, and SDK checksum calculation disabled since this core
// never computes or validates the SDK's default CRC32 trailers.
func newConfig(ctx context.Context, endpoint, accessKey, secretKey, region string) (aws.Config, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, regionID string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			HostnameImmutable: true,
			Source:            aws.EndpointSourceCustom,
		}, nil
	})

	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenRequired),
		awsconfig.WithResponseChecksumValidation(aws.ResponseChecksumValidationWhenRequired),
	)
}

func run(ctx context.Context, client *s3.Client, bucket, key string) error {
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		log.Printf("bucket %s not found, creating it", bucket)
		if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	body := []byte("s3smoke wire-compatibility payload")
	log.Printf("PutObject %s/%s (%d bytes)", bucket, key, len(body))
	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}); err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	log.Printf("GetObject %s/%s", bucket, key)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	got, err := io.ReadAll(out.Body)
	out.Body.Close()
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}
	if !bytes.Equal(got, body) {
		return fmt.Errorf("round-tripped body mismatch: got %d bytes, want %d", len(got), len(body))
	}

	log.Printf("ListObjectsV2 %s", bucket)
	list, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
	if err != nil {
		return fmt.Errorf("list objects: %w", err)
	}
	found := false
	for _, obj := range list.Contents {
		if aws.ToString(obj.Key) == key {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("listed bucket %s did not contain %s", bucket, key)
	}

	log.Printf("DeleteObject %s/%s", bucket, key)
	if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}
