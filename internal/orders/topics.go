package orders

// All order lifecycle events share one topic; EventType in the envelope and
// the x-event-type header distinguish them.
const TopicOrderEvents = "orders.events"
