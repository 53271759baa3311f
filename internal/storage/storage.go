package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage publishes a locally cached audio file at a URL the playback
// targets can reach.
type Storage interface {
	PublishAudio(localPath, name string) (string, error)
}

type LocalStorage struct {
	mediaDir string
	baseURL  string
}

type SpacesStorage struct {
	client   *s3.S3
	bucket   string
	cdnURL   string
	endpoint string
}

// NewLocalStorage serves files out of mediaDir under baseURL/media.
func NewLocalStorage(mediaDir, baseURL string) *LocalStorage {
	return &LocalStorage{mediaDir: mediaDir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client:   s3.New(sess),
		bucket:   bucket,
		cdnURL:   cdnURL,
		endpoint: endpoint,
	}, nil
}

func (ls *LocalStorage) PublishAudio(localPath, name string) (string, error) {
	if err := os.MkdirAll(ls.mediaDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	dstPath := filepath.Join(ls.mediaDir, name)
	if dstPath != localPath {
		src, err := os.Open(localPath)
		if err != nil {
			return "", fmt.Errorf("failed to open audio file: %w", err)
		}
		defer func(src *os.File) {
			err := src.Close()
			if err != nil {
				return
			}
		}(src)

		dst, err := os.Create(dstPath)
		if err != nil {
			return "", fmt.Errorf("failed to create destination file: %w", err)
		}
		defer func(dst *os.File) {
			err := dst.Close()
			if err != nil {
				return
			}
		}(dst)

		if _, err := io.Copy(dst, src); err != nil {
			return "", fmt.Errorf("failed to copy audio file: %w", err)
		}
	}

	return fmt.Sprintf("%s/media/%s", ls.baseURL, name), nil
}

func (ss *SpacesStorage) PublishAudio(localPath, name string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func(src *os.File) {
		err := src.Close()
		if err != nil {
			return
		}
	}(src)

	key := fmt.Sprintf("audio/%s", name)
	contentType := getContentType(name)

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed to upload audio to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	// Return the CDN URL
	cdnURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key)
	return cdnURL, nil
}

func getContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
