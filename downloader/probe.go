package downloader

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// probe queries uri for size, filename, content type and range-request
// support. It first issues a HEAD request; if the response carries neither
// Content-Length nor Content-Range it falls back to a ranged GET of the
// first two bytes, mirroring a server that only reports sizing information
// on an actual range response.
func probe(ctx context.Context, client *httpClient, uri string) (FileMetadata, error) {
	headReq, err := client.newRequest(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return FileMetadata{}, newProbeNetworkError("head", err)
	}

	resp, err := client.do(headReq)
	if err != nil {
		return FileMetadata{}, newProbeNetworkError("head", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return FileMetadata{}, newProbeHTTPError("head", resp.StatusCode)
	}

	size, ok := extractSize(resp.Header)
	if !ok {
		rangeReq, err := client.newRequest(ctx, http.MethodGet, uri, map[string]string{"Range": "bytes=0-1"})
		if err != nil {
			return FileMetadata{}, newProbeNetworkError("range-get", err)
		}
		rangeResp, err := client.do(rangeReq)
		if err != nil {
			return FileMetadata{}, newProbeNetworkError("range-get", err)
		}
		defer rangeResp.Body.Close()

		if rangeResp.StatusCode >= 400 {
			return FileMetadata{}, newProbeHTTPError("range-get", rangeResp.StatusCode)
		}
		size, ok = extractSize(rangeResp.Header)
		if !ok {
			return FileMetadata{}, errProbeNoSize
		}
	}

	return FileMetadata{
		Size:          size,
		Filename:      extractFilename(uri, resp.Header),
		ContentType:   headerOrDefault(resp.Header, "Content-Type", "application/octet-stream"),
		SupportsRange: supportsRange(resp.Header),
	}, nil
}

func extractSize(h http.Header) (int64, bool) {
	if cr := h.Get("Content-Range"); cr != "" {
		if idx := strings.LastIndex(cr, "/"); idx != -1 {
			if n, err := strconv.ParseInt(cr[idx+1:], 10, 64); err == nil {
				return n, true
			}
		}
		if idx := strings.LastIndex(cr, "-"); idx != -1 {
			if n, err := strconv.ParseInt(cr[idx+1:], 10, 64); err == nil {
				return n, true
			}
		}
	}
	if cl := h.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func extractFilename(uri string, h http.Header) string {
	if cd := h.Get("Content-Disposition"); cd != "" {
		for _, part := range strings.Split(cd, ";") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "filename=") {
				name := strings.Trim(part[len("filename="):], `"'`)
				if name != "" {
					return name
				}
			}
		}
	}

	if parsed, err := url.Parse(uri); err == nil {
		if last := lastPathSegment(parsed.Path); last != "" {
			if decoded, err := url.PathUnescape(last); err == nil {
				return decoded
			}
			return last
		}
	}

	return "downloaded_file"
}

func lastPathSegment(p string) string {
	p = strings.TrimSuffix(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx == -1 {
		return p
	}
	return p[idx+1:]
}

func supportsRange(h http.Header) bool {
	if ar := h.Get("Accept-Ranges"); ar != "" && !strings.EqualFold(ar, "none") {
		return true
	}
	return h.Get("Content-Range") != ""
}

func headerOrDefault(h http.Header, key, fallback string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	return fallback
}
