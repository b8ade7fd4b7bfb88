package booking

// Event is a lifecycle trigger applied to a booking.
type Event string

const (
	EventConfirmPayment Event = "confirm_payment"
	EventCancel         Event = "cancel"
	EventBeginRental    Event = "begin_rental"
	EventComplete       Event = "complete"
)

// NextStatus applies the state machine:
//
//	pending   --confirm_payment--> confirmed
//	pending   --cancel-----------> cancelled
//	confirmed --cancel-----------> cancelled
//	confirmed --begin_rental-----> active
//	active    --complete---------> completed
//
// completed and cancelled are terminal and reject every event. A paid
// booking behaves like a confirmed one.
func NextStatus(current Status, event Event) (Status, error) {
	if current == StatusPaid {
		current = StatusConfirmed
	}

	switch current {
	case StatusPending:
		switch event {
		case EventConfirmPayment:
			return StatusConfirmed, nil
		case EventCancel:
			return StatusCancelled, nil
		}
	case StatusConfirmed:
		switch event {
		case EventCancel:
			return StatusCancelled, nil
		case EventBeginRental:
			return StatusActive, nil
		}
	case StatusActive:
		if event == EventComplete {
			return StatusCompleted, nil
		}
	}

	return "", ErrInvalidTransition
}
