package s3

import (
	"net/http"

	minio "github.com/minio/minio-go/v7"
)

func errNoSuchBucket(bucket string) error {
	return minio.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Code:       "NoSuchBucket",
		Message:    "The specified bucket does not exist",
		BucketName: bucket,
	}
}

func errNoSuchKey(bucket, key string) error {
	return minio.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Code:       "NoSuchKey",
		Message:    "The specified key does not exist.",
		BucketName: bucket,
		Key:        key,
	}
}
