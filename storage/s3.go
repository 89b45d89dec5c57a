package storage

import (
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string
	Key      string
	Secret   string
	Prefix   string
}

type S3Storage struct {
	opts     S3Options
	s3Client *s3.S3
}

func NewS3Storage(opts S3Options) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, errors.New("S3 bucket name is required")
	}
	cfg := aws.NewConfig().WithRegion(opts.Region)
	if opts.Key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(opts.Key, opts.Secret, ""))
	}
	if opts.Endpoint != "" {
		cfg = cfg.WithEndpoint(opts.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return &S3Storage{opts: opts, s3Client: s3.New(sess)}, nil
}

func (s *S3Storage) key(p string) *string {
	return aws.String(path.Join(s.opts.Prefix, path.Clean("/" + p)[1:]))
}

func (s *S3Storage) Save(p string, reader io.Reader) (int64, error) {
	counter := &countingReader{r: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      &s.opts.Bucket,
		Key:         s.key(p),
		ContentType: aws.String("image/png"),
		Body:        counter,
	})
	return counter.n, err
}

func (s *S3Storage) Load(p string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.opts.Bucket,
		Key:    s.key(p),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Delete(p string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.opts.Bucket,
		Key:    s.key(p),
	})
	return err
}

func (s *S3Storage) Exists(p string) bool {
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &s.opts.Bucket,
		Key:    s.key(p),
	})
	return err == nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
