package eventloader

// EventType identifies one kind of campaign activity and its destination table.
type EventType int

const (
	EventSent EventType = iota
	EventClick
	EventOpen
	EventUnsubscribe
)

// EventTypes lists every event type in flush order.
var EventTypes = [...]EventType{EventSent, EventClick, EventOpen, EventUnsubscribe}

const recordWidth = 7

type destination struct {
	actionType string
	table      string
	detail     string
	code       string
}

var destinations = [...]destination{
	EventSent:        {actionType: "Enviado", table: "em_blue_sent_event", detail: "description", code: "SENT_EMAIL"},
	EventClick:       {actionType: "Click", table: "em_blue_click_event", detail: "url", code: "LINK_CLICK"},
	EventOpen:        {actionType: "Abierto", table: "em_blue_open_event", detail: "description", code: "OPEN_EMAIL"},
	EventUnsubscribe: {actionType: "Desuscripto", table: "em_blue_unsubscribe_event", detail: "description", code: "UNSUBSCRIBE"},
}

func (e EventType) String() string {
	switch e {
	case EventSent:
		return "sent"
	case EventClick:
		return "click"
	case EventOpen:
		return "open"
	case EventUnsubscribe:
		return "unsubscribe"
	}
	return "unknown"
}

// Table is the destination table for the event type.
func (e EventType) Table() string { return destinations[e].table }

// Code is the event type code written to the migration log.
func (e EventType) Code() string { return destinations[e].code }

// Columns returns the destination columns in record order. Only the sixth
// column differs between event types.
func (e EventType) Columns() []string {
	return []string{
		"email",
		"sent_date",
		"activity_date",
		"campaign",
		"action",
		destinations[e].detail,
		"tag",
	}
}

func eventTypeForAction(actionType string) (EventType, bool) {
	for _, et := range EventTypes {
		if destinations[et].actionType == actionType {
			return et, true
		}
	}
	return 0, false
}
