package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type BackendStatusInput struct{}

type BackendStatusOutput struct {
	Body BackendStatus
}

// RegisterRoutes registers the aggregated backend status endpoint
func (a *Aggregator) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "backend-get-status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Get aggregated backend status",
		Tags:        []string{"Module Status"},
	}, func(ctx context.Context, input *BackendStatusInput) (*BackendStatusOutput, error) {
		return &BackendStatusOutput{Body: *a.AggregateStatus(ctx)}, nil
	})
}
