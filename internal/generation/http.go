package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3/client"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// HTTPGateway calls a remote generation service.
//
// The request is POST {endpoint} with body {"prompt": "..."}; the response is
// either {"voxels": [...]} or a bare descriptor array.
type HTTPGateway struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	cc       *client.Client
}

// NewHTTPGateway creates a gateway for endpoint. A zero timeout means no
// per-request limit beyond the caller's context.
func NewHTTPGateway(endpoint, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		cc:       client.New(),
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (g *HTTPGateway) Generate(ctx context.Context, prompt string) ([]voxel.Descriptor, error) {
	p, err := normalize(prompt)
	if err != nil {
		return nil, err
	}

	header := map[string]string{"Accept": "application/json"}
	if g.apiKey != "" {
		header["Authorization"] = "Bearer " + g.apiKey
	}

	resp, err := g.cc.Post(g.endpoint, client.Config{
		Ctx:     ctx,
		Header:  header,
		Body:    generateRequest{Prompt: p},
		Timeout: g.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("calling generation service: %w", err)
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, code, excerpt(resp.Body()))
	}

	ds, _, err := voxel.DecodeJSON(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if _, err := voxel.FromDescriptors(ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return ds, nil
}

func excerpt(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
