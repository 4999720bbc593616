package s3

import (
	"fmt"
	"io"
	"os"

	"fpgrowth/filestore"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	BucketName string
	Region     string
}

func New(bucketName, region string) (*S3Driver, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3Driver{s3: s3.New(sess), BucketName: bucketName, Region: region}, nil
}

func (sd *S3Driver) Create(dir, fileName string, reader io.ReadSeeker) error {
	log.WithFields(log.Fields{
		"Key":        sd.key(dir, fileName),
		"BucketName": sd.BucketName,
		"Region":     sd.Region,
	}).Debug("S3Driver Creating file")

	input := &s3.PutObjectInput{
		Bucket: aws.String(sd.BucketName),
		Body:   reader,
		Key:    aws.String(sd.key(dir, fileName)),
	}
	_, err := sd.s3.PutObject(input)
	return err
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(sd.key(dir, fileName)),
	}
	op, err := sd.s3.GetObject(&input)
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return nil, fmt.Errorf("%w: s3://%s/%s", os.ErrNotExist, sd.BucketName, sd.key(dir, fileName))
	}
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetObjectSize(dir, fileName string) (int64, error) {
	input := s3.HeadObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(sd.key(dir, fileName)),
	}
	op, err := sd.s3.HeadObject(&input)
	if err != nil {
		return 0, err
	}
	return aws.Int64Value(op.ContentLength), nil
}

func (sd *S3Driver) GetRunDir(runID string) string {
	return fmt.Sprintf("runs/%s/", runID)
}

func (sd *S3Driver) GetPatternsFilePathAndName(runID string) (string, string) {
	return sd.GetRunDir(runID), "patterns.txt"
}

func (sd *S3Driver) GetTreeFilePathAndName(runID string) (string, string) {
	return sd.GetRunDir(runID), "fptree.txt"
}

// dir values from the path helpers already end with a separator.
func (sd *S3Driver) key(dir, fileName string) string {
	return dir + fileName
}
