package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBody caps how much of a failed response is kept for the error.
const MaxErrorBody = 4 << 10

// Download streams the body of a GET to w and returns the byte count.
// Any status other than 200 is an error carrying a prefix of the body.
func Download(ctx context.Context, client *http.Client, url string, header http.Header, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	for k, v := range header {
		req.Header[k] = v
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		return 0, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: b}
	}

	return io.Copy(w, resp.Body)
}

// StatusError is a non-200 response to Download.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download failed: %s; body: %s", e.Status, string(e.Body))
}
