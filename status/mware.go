package status

import (
	"fmt"
	"net/http"
)

type clientInterceptor struct {
	http.RoundTripper

	reporter Reporter
}

// InterceptUpstream records the outcome of each Meraki API request on the
// status reporter.
func InterceptUpstream(reporter Reporter, transport http.RoundTripper) http.RoundTripper {
	return &clientInterceptor{reporter: reporter, RoundTripper: transport}
}

func (i *clientInterceptor) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := i.RoundTripper.RoundTrip(r)
	if err != nil {
		i.reporter.ReportError(Meraki, err)
	} else {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			i.reporter.ReportOk(Meraki, "request succeeded")
		} else {
			i.reporter.ReportError(Meraki, fmt.Errorf("unexpected response received: %s", resp.Status))
		}
	}
	return resp, err
}
