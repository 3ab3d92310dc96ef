package player

// AudioResource abstracts one open handle on the platform audio backend.
// Implementations are expected to be asynchronous underneath: Open may
// start a network fetch, and position updates arrive through the callback
// given to the factory, on the backend's own clock.
type AudioResource interface {
	Open(url string) error
	Play() error
	Pause() error
	SeekTo(seconds float64) error
	Position() float64
	Duration() float64
	SetVolume(v float64) // effective output volume in [0, 1]
	Close() error
}

// ResourceFactory builds a fresh resource for one selected track. The
// factory wires onPosition as the resource's periodic position callback;
// it reports (position, duration) in seconds.
type ResourceFactory func(onPosition func(position, duration float64)) AudioResource
