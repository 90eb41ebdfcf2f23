package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/domain"
	"github.com/user/lightbox-fetcher/pkg/utils"
)

// Options is the explicit configuration of an ImageFetcher.
type Options struct {
	BaseURL   string
	OutputDir string
	// StrictStatus turns non-2xx responses into HTTPStatusError instead of
	// treating their bodies as valid content.
	StrictStatus bool
}

// ImageFetcher saves the lightbox image linked from a page.
type ImageFetcher struct {
	opts   Options
	pages  PageSource
	client *http.Client
	logger *zap.Logger
}

func New(opts Options, pages PageSource, client *http.Client, logger *zap.Logger) (*ImageFetcher, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: base url", domain.ErrMissingConfig)
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: output directory", domain.ErrMissingConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if pages == nil {
		pages = NewHTTPPageSource(client)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageFetcher{opts: opts, pages: pages, client: client, logger: logger}, nil
}

// PageURL resolves a link against the base address.
func (f *ImageFetcher) PageURL(link string) string {
	return utils.JoinLink(f.opts.BaseURL, link)
}

// FetchImage reports true once the image is on disk and false when no image
// reference could be extracted from the page. Failures after extraction
// (image download, file write) are returned as errors.
func (f *ImageFetcher) FetchImage(ctx context.Context, link string) (bool, error) {
	res, err := f.Fetch(ctx, link)
	if err != nil {
		return false, err
	}
	return res.OK(), nil
}

// Fetch runs the two-step fetch and reports a tagged result. Extraction
// failures come back as a result with a nil error.
func (f *ImageFetcher) Fetch(ctx context.Context, link string) (*domain.FetchResult, error) {
	res := &domain.FetchResult{
		Link:      link,
		PageURL:   f.PageURL(link),
		FetchedAt: time.Now(),
	}

	ref, err := f.resolveReference(ctx, res.PageURL)
	if err != nil {
		res.Fail(err)
		f.logger.Debug("no image reference", zap.String("link", link), zap.String("outcome", string(res.Outcome)), zap.Error(err))
		return res, nil
	}
	res.ImageURL = ref
	res.FileName = utils.LastSegment(ref)
	if err := checkFileName(res.FileName); err != nil {
		res.Fail(err)
		return res, err
	}

	data, err := f.download(ctx, ref)
	if err != nil {
		res.Fail(err)
		return res, err
	}

	path, err := f.save(res.FileName, data)
	if err != nil {
		res.Fail(err)
		return res, err
	}

	res.Path = path
	res.Bytes = int64(len(data))
	res.Outcome = domain.OutcomeSaved
	f.logger.Debug("image saved", zap.String("link", link), zap.String("path", path), zap.Int64("bytes", res.Bytes))
	return res, nil
}

func (f *ImageFetcher) resolveReference(ctx context.Context, pageURL string) (string, error) {
	page, err := f.pages.FetchPage(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPageFetch, err)
	}
	if f.opts.StrictStatus && !success(page.StatusCode) {
		return "", fmt.Errorf("%w: %w", domain.ErrPageFetch, &domain.HTTPStatusError{URL: pageURL, StatusCode: page.StatusCode})
	}
	return ExtractImageReference(page.Body)
}

func (f *ImageFetcher) download(ctx context.Context, imageURL string) ([]byte, error) {
	data, status, err := get(ctx, f.client, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetch, err)
	}
	if f.opts.StrictStatus && !success(status) {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetch, &domain.HTTPStatusError{URL: imageURL, StatusCode: status})
	}
	return data, nil
}

// checkFileName rejects names that would not land inside the output
// directory. An empty or slash-terminated href ends up here.
func checkFileName(name string) error {
	switch name {
	case "", ".", "..":
		return fmt.Errorf("%w: invalid file name %q", domain.ErrWrite, name)
	}
	return nil
}

// save creates or truncates name inside the output directory.
func (f *ImageFetcher) save(name string, data []byte) (path string, err error) {
	if err := checkFileName(name); err != nil {
		return "", err
	}

	path = filepath.Join(f.opts.OutputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			path, err = "", fmt.Errorf("%w: %w", domain.ErrWrite, cerr)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	return path, nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}
