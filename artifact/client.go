package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// FormField is the multipart field carrying the uploaded photograph.
const FormField = "file"

// Client uploads photographs to the analysis service.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a Client for the service at url using
// http.DefaultClient.
func NewClient(url string) *Client {
	return &Client{URL: url}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Fetch uploads the named photograph and returns the raster bytes and entry
// name selected from the archive the service replies with. Transport and
// HTTP status failures are wrapped with ErrFetch; an archive without a
// raster yields ErrArtifactNotFound.
func (c *Client) Fetch(ctx context.Context, name string, photo []byte) ([]byte, string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile(FormField, name)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(photo); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return nil, "", errors.Wrap(ErrFetch, err.Error())
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", errors.Wrap(ErrFetch, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errors.Wrap(ErrFetch, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(ErrFetch, err.Error())
	}

	entries, err := Unzip(b)
	if err != nil {
		return nil, "", errors.Wrap(ErrFetch, err.Error())
	}

	return Select(entries)
}
