package httpfactory

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/specialistvlad/bundlecore/internal/factory"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// Factory resolves each dependency's Request as an absolute URL and
// fetches its body, producing one Module per distinct URL. The Module's
// build step is the HTTP GET itself; Create returns the Module before the
// body is fetched, deferring the network call to Module.Build. The
// resolver holds its internal/semaphore permit only around Create, so the
// GETs themselves are not bounded by that permit.
type Factory struct {
	client *resty.Client
}

// New creates an httpfactory.Factory using a freshly constructed resty
// client. Callers that need custom timeouts, retries, or TLS config
// should build their own *resty.Client and use NewWithClient instead.
func New() *Factory {
	return NewWithClient(resty.New())
}

// NewWithClient creates an httpfactory.Factory using client.
func NewWithClient(client *resty.Client) *Factory {
	return &Factory{client: client}
}

// Close releases the underlying HTTP client's idle connections.
func (f *Factory) Close() error {
	return f.client.Close()
}

// Create implements factory.ModuleFactory.
func (f *Factory) Create(ctx context.Context, req factory.CreateRequest) (*module.Module, error) {
	if len(req.Dependencies) == 0 {
		return nil, fmt.Errorf("httpfactory: create request has no dependencies")
	}
	url := req.Dependencies[0].Request

	var m *module.Module
	build := func() error {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("httpfactory: GET %s: %w", url, err)
		}
		if resp.IsError() {
			return fmt.Errorf("httpfactory: GET %s: status %s", url, resp.Status())
		}
		m.Assets["content"] = responseBody(resp.String())
		return nil
	}
	m = module.New(url, build)
	return m, nil
}

// responseBody lets internal/template/simple recover the fetched body
// without this package needing to know about templates.
type responseBody string

func (r responseBody) Size() int      { return len(r) }
func (r responseBody) String() string { return string(r) }
func (r responseBody) Content() []byte { return []byte(r) }

var _ factory.ModuleFactory = (*Factory)(nil)
