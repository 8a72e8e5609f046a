package ipwherelib

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
)

type httpService struct {
	client HTTPClient
}

func (h httpService) Invoke(ctx context.Context, provider Provider, target net.IP) (LookupResponse, error) {
	if !provider.SupportsTargetLookup() {
		target = nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.Endpoint(target), nil)
	if err != nil {
		return LookupResponse{}, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return LookupResponse{}, fmt.Errorf("cannot send a request: %w", err)
	}

	defer func() {
		io.Copy(ioutil.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return LookupResponse{}, fmt.Errorf("%w: %s", ErrTooManyRequests, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return LookupResponse{}, fmt.Errorf("%w: %s", ErrRequestStatus, resp.Status)
	}

	body, err := ioutil.ReadAll(bufio.NewReader(resp.Body))
	if err != nil {
		return LookupResponse{}, fmt.Errorf("cannot read a response: %w", err)
	}

	parsed, err := provider.Parse(body)
	if err != nil {
		return LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	return parsed, nil
}

// NewService returns a service which issues one blocking HTTP GET per
// invocation. 200 hands the body to the provider's parser, 429 maps to
// ErrTooManyRequests, any other status to ErrRequestStatus. Transport
// and parse failures are wrapped; the caller decides whether they are
// worth another provider.
func NewService(client HTTPClient) Service {
	return httpService{
		client: client,
	}
}
