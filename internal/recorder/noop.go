package recorder

import "TrendScope/internal/model"

// NoopRecorder is a no-op implementation used when no snapshot path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) WriteSnapshot(_ *model.PriceTable) error { return nil }
func (n *NoopRecorder) Close() error                            { return nil }
