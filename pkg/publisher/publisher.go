package publisher

// Message is one received datagram fanned out to subscribers.
type Message struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
	Data   []byte `json:"data"`
}

type Publisher interface {
	// AddTopic registers a new topic.
	AddTopic(name string) error

	// Publish delivers a message to every subscriber of the topic.
	Publish(topic string, message Message) error

	// Subscribe registers a handler on a topic and returns the subscriber
	// id used to unsubscribe.
	Subscribe(topic string, handler func(*Message) error) (string, error)

	// Unsubscribe removes a subscriber by id.
	Unsubscribe(topic string, subscriberID string) error
}
