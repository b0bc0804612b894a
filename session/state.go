package session

// State is the authentication lifecycle of the single identity a Manager holds.
type State int

const (
	LoggedOut State = iota
	Authenticating
	Authenticated
	RefreshPending
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case RefreshPending:
		return "refresh_pending"
	default:
		return "unknown"
	}
}
