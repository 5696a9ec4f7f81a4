package transport

// outboundQueue buffers messages that could not be transmitted yet.
// Insertion order is send order. Entries leave the queue only when a
// transmission attempt is made; a failed attempt puts the message back.
// Mutated only under the Client lock.
type outboundQueue struct {
	items []Message
}

func newOutboundQueue() *outboundQueue {
	return &outboundQueue{}
}

// Enqueue appends a message. It always succeeds; the queue is unbounded.
func (q *outboundQueue) Enqueue(m Message) {
	q.items = append(q.items, m)
}

// Dequeue removes and returns the oldest message.
func (q *outboundQueue) Dequeue() (Message, bool) {
	if len(q.items) == 0 {
		return Message{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// PushFront restores a message to the head of the queue, keeping its
// original position for a retry in place.
func (q *outboundQueue) PushFront(m Message) {
	q.items = append([]Message{m}, q.items...)
}

// Len returns the number of buffered messages.
func (q *outboundQueue) Len() int {
	return len(q.items)
}
