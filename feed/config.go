package feed

const (
	defaultPayloadSize = 1474
	defaultWindowBound = 4096
)

type Config struct {
	IPAddr string
	Port   uint16

	// PayloadSize is the read buffer size for one datagram.
	PayloadSize int

	// WindowBound is the capacity of each per-symbol window.
	WindowBound int
}

func NewDefaultConfig() *Config {
	return &Config{
		IPAddr: "127.0.0.1",
		Port:   20_000,

		PayloadSize: defaultPayloadSize,
		WindowBound: defaultWindowBound,
	}
}
