package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/segmentio/encoding/json"
)

const defaultMembersAPI = "https://api.crossref.org/members"

// CrossrefResolver asks the Crossref members API for the registered
// name of a DOI prefix. A 404 means the prefix has no member and is
// reported as not found, not as an error.
type CrossrefResolver struct {
	apiURL string
	client *http.Client
}

// NewCrossrefResolver creates a resolver against the public members
// API. An empty apiURL selects the default endpoint.
func NewCrossrefResolver(apiURL string) *CrossrefResolver {
	if apiURL == "" {
		apiURL = defaultMembersAPI
	}

	return &CrossrefResolver{
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve implements Resolver.
func (r *CrossrefResolver) Resolve(ctx context.Context, prefix string) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/%s", r.apiURL, url.PathEscape(prefix))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", false, err
	}

	res, err := r.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return "", false, nil

	case res.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("members lookup for [%s] failed: %s", prefix, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", false, err
	}

	var reply struct {
		Message struct {
			PrimaryName string `json:"primary-name"`
		} `json:"message"`
	}

	if err := json.Unmarshal(body, &reply); err != nil {
		return "", false, fmt.Errorf("members lookup for [%s]: %s", prefix, err.Error())
	}

	if reply.Message.PrimaryName == "" {
		return "", false, nil
	}

	return reply.Message.PrimaryName, true, nil
}
