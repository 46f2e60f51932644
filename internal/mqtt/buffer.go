package mqtt

// bufferedMsg is a serialized message held for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a fixed-capacity FIFO of messages published while offline.
// When full the oldest message is overwritten. Not safe for concurrent use.
type backlog struct {
	buf     []bufferedMsg
	head    int // next write position
	count   int
	dropped int // overwritten since the last drain
}

func newBacklog(capacity int) *backlog {
	return &backlog{buf: make([]bufferedMsg, capacity)}
}

func (b *backlog) push(msg bufferedMsg) {
	b.buf[b.head] = msg
	b.head = (b.head + 1) % len(b.buf)
	if b.count == len(b.buf) {
		b.dropped++
		return
	}
	b.count++
}

// drain returns buffered messages oldest first and how many were lost.
func (b *backlog) drain() ([]bufferedMsg, int) {
	if b.count == 0 {
		return nil, 0
	}

	out := make([]bufferedMsg, b.count)
	start := (b.head - b.count + len(b.buf)) % len(b.buf)
	for i := range out {
		out[i] = b.buf[(start+i)%len(b.buf)]
	}

	dropped := b.dropped
	b.count, b.head, b.dropped = 0, 0, 0
	return out, dropped
}

func (b *backlog) len() int {
	return b.count
}
