package submit

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/onepctclub/storefront/pkg/config"
	"go.uber.org/multierr"
)

// Submitter is one sink for a completed checkout.
type Submitter interface {
	SubmitOrder(ctx context.Context, order Order) Result
}

const (
	SinkDirect = "direct"
	SinkLegacy = "legacy"
	SinkBoth   = "both"
)

// Outcome reports the system-of-record write plus the optional mirror write.
// There is no transaction boundary between the sinks; consistency is best
// effort and the caller decides what a partial failure means.
type Outcome struct {
	Primary   Result
	Secondary *Result
}

// OK reports whether the system-of-record write succeeded.
func (o Outcome) OK() bool { return o.Primary.OK() }

// PartialFailure reports a mirror write that failed while the system of
// record succeeded.
func (o Outcome) PartialFailure() bool {
	return o.Primary.OK() && o.Secondary != nil && !o.Secondary.OK()
}

// Err aggregates every sink failure into one error for logging.
func (o Outcome) Err() error {
	var err error
	if o.Primary.Err != nil {
		err = multierr.Append(err, fmt.Errorf("primary sink: %s", o.Primary.Err.Message))
	}
	if o.Secondary != nil && o.Secondary.Err != nil {
		err = multierr.Append(err, fmt.Errorf("secondary sink: %s", o.Secondary.Err.Message))
	}
	return err
}

// Writer issues the configured sink writes for one checkout attempt,
// sequentially, system of record first.
type Writer struct {
	primary   Submitter
	secondary Submitter
}

// NewWriter wires the sinks from configuration. Unknown sink names fall back
// to the direct sink.
func NewWriter(cfg *config.Config, httpClient *http.Client) *Writer {
	direct := NewDirectClient(cfg.Database, httpClient)
	legacy := NewLegacyClient(cfg.Backend.BaseURL(), httpClient)

	switch cfg.Submit.Sink {
	case SinkLegacy:
		return &Writer{primary: legacy}
	case SinkBoth:
		return &Writer{primary: direct, secondary: legacy}
	default:
		return &Writer{primary: direct}
	}
}

// NewWriterWithSinks is the test seam.
func NewWriterWithSinks(primary, secondary Submitter) (*Writer, error) {
	if primary == nil {
		return nil, errors.New("primary sink required")
	}
	return &Writer{primary: primary, secondary: secondary}, nil
}

// Submit writes the order to every configured sink. The secondary write is
// attempted even when the primary fails; neither blocks the checkout flow.
func (w *Writer) Submit(ctx context.Context, order Order) Outcome {
	out := Outcome{Primary: w.primary.SubmitOrder(ctx, order)}
	if w.secondary != nil {
		res := w.secondary.SubmitOrder(ctx, order)
		out.Secondary = &res
	}
	return out
}
