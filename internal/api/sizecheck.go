package api

import "os"

// FileSizeLimits sets upload ceilings per media type, in bytes. These are
// policy on the client instance: domain methods check them before a request
// reaches the dispatcher, and raw Do callers are never second-guessed.
type FileSizeLimits struct {
	Image      int64
	Video      int64
	ImageBatch int64
	Zip        int64
}

// DefaultFileSizeLimits mirrors the service's documented ceilings.
func DefaultFileSizeLimits() FileSizeLimits {
	return FileSizeLimits{
		Image:      50 * 1024 * 1024,
		Video:      300 * 1024 * 1024,
		ImageBatch: 50 * 1024 * 1024,
		Zip:        2 * 1000 * 1000 * 1000,
	}
}

func (l FileSizeLimits) withDefaults() FileSizeLimits {
	defaults := DefaultFileSizeLimits()
	if l.Image == 0 {
		l.Image = defaults.Image
	}
	if l.Video == 0 {
		l.Video = defaults.Video
	}
	if l.ImageBatch == 0 {
		l.ImageBatch = defaults.ImageBatch
	}
	if l.Zip == 0 {
		l.Zip = defaults.Zip
	}
	return l
}

// checkFilePayloadSize stats every path and verifies a single file against
// singleLimit or a batch's total against batchLimit. Filesystem errors
// propagate untouched so a missing file fails the call before any request
// is sent.
func checkFilePayloadSize(paths []string, batchLimit, singleLimit int64) error {
	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return err
		}
		if info.Size() > singleLimit {
			return &FileSizeError{SingleLimit: singleLimit}
		}
		return nil
	}

	var total int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		total += info.Size()
	}
	if total > batchLimit {
		return &FileSizeError{SingleLimit: singleLimit, BatchLimit: batchLimit}
	}
	return nil
}

// checkImageSize applies the image/imageBatch ceilings to classification
// uploads. A nil path list is fine (URL-based classification).
func (c *Client) checkImageSize(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return checkFilePayloadSize(paths, c.limits.ImageBatch, c.limits.Image)
}
