package objectstore

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"clipcap/internal/adapters/objectstore/gdrive"
	"clipcap/internal/adapters/objectstore/localfs"
	"clipcap/internal/adapters/objectstore/s3store"
)

func NewProvider(ctx context.Context) (Provider, error) {
	provider := os.Getenv("OBJECT_STORE_PROVIDER")
	if provider == "" {
		provider = "s3"
	}

	switch provider {
	case "s3":
		return newS3Provider(ctx)

	case "localfs":
		root := mustEnv("STORAGE_LOCAL_ROOT")
		base := envOr("STORAGE_PUBLIC_BASEURL", "http://localhost:8080/files")
		return localfs.New(root, base), nil

	case "gdrive":
		return newGDriveProvider(ctx)

	default:
		return nil, fmt.Errorf("unknown object store provider: %s", provider)
	}
}

func newS3Provider(ctx context.Context) (Provider, error) {
	bucket := mustEnv("S3_BUCKET")

	opts := []func(*awsconfig.LoadOptions) error{}
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	// Explicit keys take precedence over the default credential chain.
	if ak, sk := os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_SECRET_KEY"); ak != "" && sk != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv("S3_ENDPOINT")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		}
	})

	return s3store.New(client, bucket), nil
}

func newGDriveProvider(ctx context.Context) (Provider, error) {
	clientID := mustEnv("GDRIVE_CLIENT_ID")
	clientSecret := mustEnv("GDRIVE_CLIENT_SECRET")
	refreshToken := mustEnv("GDRIVE_REFRESH_TOKEN")
	folderID := os.Getenv("GDRIVE_FOLDER_ID")

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}

	tok := &oauth2.Token{RefreshToken: refreshToken}
	httpClient := conf.Client(ctx, tok)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return gdrive.NewClient(srv, folderID), nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
