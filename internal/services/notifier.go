package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
)

// Email is one outgoing notification before rendering.
type Email struct {
	Template common.EmailTemplate
	To       string
	Data     common.EmailData
}

// Notifier renders and sends transactional email. Delivery is best effort:
// failures are logged and counted, never retried.
type Notifier struct {
	mailer   common.Mailer
	renderer *common.EmailRenderer
	metrics  *metrics.MetricsRegistry
	baseURL  string
	adminTo  string
}

func NewNotifier(mailer common.Mailer, renderer *common.EmailRenderer, m *metrics.MetricsRegistry, baseURL, adminTo string) *Notifier {
	return &Notifier{
		mailer:   mailer,
		renderer: renderer,
		metrics:  m,
		baseURL:  baseURL,
		adminTo:  adminTo,
	}
}

// Link builds an absolute URL on the public site.
func (n *Notifier) Link(path string) string {
	return n.baseURL + path
}

// AdminAddress is where admin notifications go.
func (n *Notifier) AdminAddress() string {
	return n.adminTo
}

func (n *Notifier) Send(ctx context.Context, e Email) error {
	msg, err := n.renderer.Render(e.Template, e.To, e.Data)
	if err == nil {
		err = n.mailer.Send(ctx, msg)
	}

	if err != nil {
		n.metrics.EmailsTotal.WithLabelValues(string(e.Template), "failed").Inc()
		logging.Error("Failed to send email",
			"template", string(e.Template),
			"to", e.To,
			"error", err.Error(),
		)
		return err
	}

	n.metrics.EmailsTotal.WithLabelValues(string(e.Template), "sent").Inc()
	return nil
}

// SendAll delivers every email concurrently. Each one is attempted even if
// another fails; the first failure is returned.
func (n *Notifier) SendAll(ctx context.Context, emails ...Email) error {
	var g errgroup.Group
	for _, e := range emails {
		e := e
		g.Go(func() error { return n.Send(ctx, e) })
	}
	return g.Wait()
}
