package pipeline

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/pkg/errors"
)

// AssetFetcher resolves asset references. Source videos and music are fetched
// at the point they are first needed; any fetch failure is fatal to the job.
type AssetFetcher struct {
	awsRepo    shorts.AWSRepository
	httpClient *http.Client
}

func NewAssetFetcher(awsRepo shorts.AWSRepository) *AssetFetcher {
	return &AssetFetcher{
		awsRepo:    awsRepo,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

func (f *AssetFetcher) Fetch(ctx context.Context, ref, destPath string) error {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		bucket, key, err := splitS3Ref(ref)
		if err != nil {
			return err
		}
		return f.awsRepo.DownloadFile(ctx, bucket, key, destPath)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.fetchHTTP(ctx, ref, destPath)
	default:
		// Local path, used by tests and CLI runs against files on disk.
		return copyFile(ref, destPath)
	}
}

func (f *AssetFetcher) fetchHTTP(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build asset request")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetch asset %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("fetch asset %s: unexpected status %d", url, resp.StatusCode)
	}

	outFile, err := os.Create(destPath)
	if err != nil {
		return errors.Wrap(err, "create asset file")
	}
	defer outFile.Close()
	if _, err = io.Copy(outFile, resp.Body); err != nil {
		return errors.Wrap(err, "write asset file")
	}
	return nil
}

func splitS3Ref(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid s3 reference %q", ref)
	}
	return parts[0], parts[1], nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open asset")
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create asset copy")
	}
	defer out.Close()
	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrap(err, "copy asset")
	}
	return nil
}
