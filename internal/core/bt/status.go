package bt

// Status represents the result of a node update.
type Status int

const (
	// StatusNone is the state of a node that has not run since its last reset.
	StatusNone Status = iota
	StatusSuccess
	StatusFailure
	// StatusRunning means the node must be updated again next step without a reset.
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "None"
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Invalid"
	}
}

// Terminal reports whether s settles the node for this step.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusFailure }

func (s Status) valid() bool { return s == StatusSuccess || s == StatusFailure || s == StatusRunning }
