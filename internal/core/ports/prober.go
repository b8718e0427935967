package ports

import "context"

// Prober checks whether a candidate URL resolves. Only status 200 counts as
// success; transport failures are returned as errors.
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// PageInspector reads the title of a resolved lyrics page.
type PageInspector interface {
	PageTitle(ctx context.Context, url string) (string, error)
}
