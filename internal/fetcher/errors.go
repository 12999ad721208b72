package fetcher

import "fmt"

// FetchError reports a failed fetch for one topic. Fetch failures are
// isolated: the pipeline logs them and continues with the remaining topics.
type FetchError struct {
	Topic string
	URL   string
	Err   error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("fetch failed for topic %q (%s): %v", e.Topic, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch failed for topic %q: %v", e.Topic, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
