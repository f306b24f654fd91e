package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// fetchResult is what a segment fetch reports back to the Coordinator.
type fetchResult struct {
	SegmentID    int
	BytesWritten int64 // total bytes now confirmed written for this segment
	Err          error
}

// fetchSegment downloads one byte range and writes it directly into
// outPath at r.Start+resumeOffset. It retries up to cfg.RetryTimes times
// with a fixed cfg.RetryBackoff delay between attempts. progress(n) is
// invoked after every chunk write with the cumulative bytes written for
// this segment so the Coordinator can track partial[id] even across a
// failed attempt.
func fetchSegment(ctx context.Context, client *httpClient, uri, outPath string, r Range, resumeOffset int64, cfg Config, progress func(total int64)) fetchResult {
	written := resumeOffset
	var lastErr error

	for attempt := 1; attempt <= cfg.RetryTimes; attempt++ {
		if ctx.Err() != nil {
			return fetchResult{SegmentID: r.ID, BytesWritten: written, Err: ctx.Err()}
		}

		_, err := attemptFetchSegment(ctx, client, uri, outPath, r, written, cfg, func(delta int64) {
			written += delta
			progress(written)
		})

		if err == nil {
			return fetchResult{SegmentID: r.ID, BytesWritten: written, Err: nil}
		}
		lastErr = err

		if attempt == cfg.RetryTimes {
			break
		}

		select {
		case <-time.After(cfg.RetryBackoff):
		case <-ctx.Done():
			return fetchResult{SegmentID: r.ID, BytesWritten: written, Err: ctx.Err()}
		}
	}

	return fetchResult{SegmentID: r.ID, BytesWritten: written, Err: &FetchError{Kind: KindFetch, SegmentID: r.ID, Attempts: cfg.RetryTimes, Cause: lastErr}}
}

// attemptFetchSegment performs exactly one HTTP attempt for the remainder
// of the range starting at r.Start+alreadyWritten, streaming the response
// body in cfg.ChunkSize chunks and writing each chunk at its correct file
// offset via WriteAt. It reports bytes newly written via onChunk so the
// caller can advance its own running total even when the attempt fails
// partway through — resume_offset is allowed to advance within a single
// attempt, but only ever at a whole-chunk boundary, never mid-chunk.
func attemptFetchSegment(ctx context.Context, client *httpClient, uri, outPath string, r Range, alreadyWritten int64, cfg Config, onChunk func(delta int64)) (int64, error) {
	start := r.Start + alreadyWritten
	if start > r.EndInclusive {
		return 0, nil
	}

	rangeHeader := fmt.Sprintf("bytes=%d-%d", start, r.EndInclusive)
	req, err := client.newRequest(ctx, http.MethodGet, uri, map[string]string{"Range": rangeHeader})
	if err != nil {
		return 0, err
	}

	resp, err := client.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// expected path
	case http.StatusOK:
		if resp.ContentLength >= 0 && resp.ContentLength != r.EndInclusive-start+1 {
			return 0, fmt.Errorf("server ignored range request: got %d bytes, wanted %d", resp.ContentLength, r.EndInclusive-start+1)
		}
	default:
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.OpenFile(outPath, os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	buf := make([]byte, cfg.ChunkSize)
	var written int64
	offset := start

	for {
		if ctx.Err() != nil {
			return written, ctx.Err()
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.WriteAt(buf[:n], offset); werr != nil {
				return written, fmt.Errorf("write output: %w", werr)
			}
			offset += int64(n)
			written += int64(n)
			onChunk(int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	return written, nil
}
