package model

// Origin tells where the bytes of a Payload came from.
type Origin int

const (
	OriginLocal Origin = iota
	OriginCache
	OriginNetwork
)

func (o Origin) String() string {
	switch o {
	case OriginCache:
		return "cache"
	case OriginNetwork:
		return "network"
	default:
		return "local"
	}
}

// Payload is the raw content of a loaded image.
type Payload struct {
	Data   []byte
	Origin Origin
	// Warnings collects best-effort failures, like a cache write that did not
	// go through. They never fail the load.
	Warnings []error
}
