package driver

import "time"

// Status captures the progress state of one template.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being decoded.
	StatusWorking Status = "working"
	// StatusDone indicates the template decoded cleanly.
	StatusDone Status = "done"
	// StatusError indicates the template or its load failed.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Status  Status
	Cached  bool
	Elapsed time.Duration
}

// ProgressSink consumes progress events. CheckPaths calls OnEvent from its
// worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
