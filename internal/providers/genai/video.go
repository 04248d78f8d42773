package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Operation is the opaque handle for a long-running video generation job.
// It is created by StartVideoJob, refreshed by Operation, and discarded once
// the result URI has been extracted.
type Operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *OperationError `json:"error,omitempty"`
	Response *videoResponse  `json:"response,omitempty"`
}

// OperationError is the terminal error attached to a failed operation.
type OperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type videoResponse struct {
	GenerateVideoResponse struct {
		GeneratedSamples []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedSamples"`
	} `json:"generateVideoResponse"`
}

// ResultURI returns the signed video URI of a completed operation, empty if
// the service completed without producing one.
func (o *Operation) ResultURI() string {
	if o == nil || o.Response == nil {
		return ""
	}
	for _, sample := range o.Response.GenerateVideoResponse.GeneratedSamples {
		if uri := strings.TrimSpace(sample.Video.URI); uri != "" {
			return uri
		}
	}
	return ""
}

type videoInstance struct {
	Prompt string         `json:"prompt"`
	Image  *videoJobImage `json:"image,omitempty"`
}

type videoJobImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	SampleCount int    `json:"sampleCount,omitempty"`
}

type predictLongRunningRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

// StartVideoJob submits a video generation job and returns its operation
// handle. The remote job cannot be cancelled once submitted; context
// cancellation only affects the local HTTP call.
func (c *Client) StartVideoJob(ctx context.Context, req VideoJobRequest) (*Operation, error) {
	instance := videoInstance{Prompt: req.Prompt}
	if req.Image != nil && len(req.Image.Data) > 0 {
		mime := req.Image.MIME
		if mime == "" {
			mime = "image/png"
		}
		instance.Image = &videoJobImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.Image.Data),
			MimeType:           mime,
		}
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}
	payload := predictLongRunningRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio: req.AspectRatio,
			Resolution:  req.Resolution,
			SampleCount: count,
		},
	}

	var op Operation
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.videoModel))
	if err := c.invoke(ctx, http.MethodPost, path, payload, &op); err != nil {
		return nil, err
	}
	if strings.TrimSpace(op.Name) == "" {
		return nil, ErrNoPayload
	}
	c.logger.Debug().Str("operation", op.Name).Msg("genai: video job submitted")
	return &op, nil
}

// Operation re-fetches the state of a long-running operation by name.
func (c *Client) Operation(ctx context.Context, name string) (*Operation, error) {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if name == "" {
		return nil, fmt.Errorf("operation name is required")
	}
	var op Operation
	if err := c.invoke(ctx, http.MethodGet, "/"+name, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}
