package styles

import "time"

// RenderLogEvent describes a render attempt for logging.
type RenderLogEvent struct {
	Engine      string
	Styles      int
	Zones       int
	Hit         bool
	Flushed     bool
	Entries     int
	Duration    time.Duration
	Err         error
	ActivityErr error
}

// RenderLogger records render events.
type RenderLogger interface {
	LogRender(RenderLogEvent)
}

// RenderLoggerFunc adapts a function to RenderLogger.
type RenderLoggerFunc func(RenderLogEvent)

// LogRender implements RenderLogger.
func (f RenderLoggerFunc) LogRender(event RenderLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRenderLogger struct{}

func (noopRenderLogger) LogRender(RenderLogEvent) {}

// MultiRenderLogger fans events out to every logger in order.
type MultiRenderLogger []RenderLogger

// LogRender implements RenderLogger.
func (m MultiRenderLogger) LogRender(event RenderLogEvent) {
	for _, logger := range m {
		if logger != nil {
			logger.LogRender(event)
		}
	}
}
