package gcstorage

import (
	"context"
	"fmt"
	"io"
	"os"

	"fpgrowth/filestore"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
}

func New(bucketName string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	d := &GCSDriver{
		BucketName: bucketName,
		client:     client,
	}
	return d, nil
}

func (gcsd *GCSDriver) Create(dir, fileName string, reader io.ReadSeeker) error {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		w.Close()
		return err
	}
	err := w.Close()
	return err
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Bucket": gcsd.BucketName,
		"Object": dir + fileName,
	}).Debug("GCSDriver Opening object")

	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return nil, fmt.Errorf("%w: gs://%s/%s%s", os.ErrNotExist, gcsd.BucketName, dir, fileName)
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (gcsd *GCSDriver) GetObjectSize(dir, fileName string) (int64, error) {
	ctx := context.Background()
	attrs, err := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName).Attrs(ctx)
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

func (gcsd *GCSDriver) GetRunDir(runID string) string {
	return fmt.Sprintf("runs/%s/", runID)
}

func (gcsd *GCSDriver) GetPatternsFilePathAndName(runID string) (string, string) {
	return gcsd.GetRunDir(runID), "patterns.txt"
}

func (gcsd *GCSDriver) GetTreeFilePathAndName(runID string) (string, string) {
	return gcsd.GetRunDir(runID), "fptree.txt"
}
