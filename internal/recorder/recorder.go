package recorder

import "TrendScope/internal/model"

// Recorder persists the adjusted close table of a run.
type Recorder interface {
	WriteSnapshot(table *model.PriceTable) error
	Close() error
}

// New returns a CSVRecorder for path, or a NoopRecorder when path is empty.
func New(path string) Recorder {
	if path == "" {
		return NewNoopRecorder()
	}
	return NewCSVRecorder(path)
}
