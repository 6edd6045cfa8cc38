package game

import "time"

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeMoveApplied EventType = "move_applied"
	EventTypeTurnExpired EventType = "turn_expired"
	EventTypeGameWon     EventType = "game_won"
	EventTypeGameReset   EventType = "game_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// MoveAppliedEvent is published when a mark is written to the board
type MoveAppliedEvent struct {
	Mark      Mark
	Index     int
	Next      Mark // Empty when the move won the game
	timestamp time.Time
}

func (e MoveAppliedEvent) EventType() EventType { return EventTypeMoveApplied }
func (e MoveAppliedEvent) Timestamp() time.Time { return e.timestamp }

// NewMoveAppliedEvent creates a new move applied event
func NewMoveAppliedEvent(mark Mark, index int, next Mark) MoveAppliedEvent {
	return MoveAppliedEvent{
		Mark:      mark,
		Index:     index,
		Next:      next,
		timestamp: time.Now(),
	}
}

// TurnExpiredEvent is published when the countdown runs out and the turn
// passes without a mark being written
type TurnExpiredEvent struct {
	Expired   Mark
	Next      Mark
	timestamp time.Time
}

func (e TurnExpiredEvent) EventType() EventType { return EventTypeTurnExpired }
func (e TurnExpiredEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnExpiredEvent creates a new turn expired event
func NewTurnExpiredEvent(expired, next Mark) TurnExpiredEvent {
	return TurnExpiredEvent{
		Expired:   expired,
		Next:      next,
		timestamp: time.Now(),
	}
}

// GameWonEvent is published when a move completes a line
type GameWonEvent struct {
	Result    WinResult
	timestamp time.Time
}

func (e GameWonEvent) EventType() EventType { return EventTypeGameWon }
func (e GameWonEvent) Timestamp() time.Time { return e.timestamp }

// NewGameWonEvent creates a new game won event
func NewGameWonEvent(result WinResult) GameWonEvent {
	return GameWonEvent{
		Result:    result,
		timestamp: time.Now(),
	}
}

// GameResetEvent is published when the board is cleared for a new game
type GameResetEvent struct {
	timestamp time.Time
}

func (e GameResetEvent) EventType() EventType { return EventTypeGameReset }
func (e GameResetEvent) Timestamp() time.Time { return e.timestamp }

// NewGameResetEvent creates a new game reset event
func NewGameResetEvent() GameResetEvent {
	return GameResetEvent{timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a plain function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous and in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Func subscribers
// are not comparable and cannot be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, isFunc := subscriber.(EventSubscriberFunc); isFunc {
		return
	}
	for i, sub := range bus.subscribers {
		if _, isFunc := sub.(EventSubscriberFunc); isFunc {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
