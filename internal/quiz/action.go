package quiz

// ActionKind identifies an action on the wire.
type ActionKind string

const (
	KindSetUserName  ActionKind = "setUserName"
	KindNextQuestion ActionKind = "nextQuestion"
	KindSubmitAnswer ActionKind = "submitAnswer"
)

// Action describes an intended state change.
type Action interface {
	Kind() ActionKind
}

// SetUserName records the player's name.
type SetUserName struct {
	Name string
}

// NextQuestion serves a random unasked question, or completes the quiz.
type NextQuestion struct{}

// SubmitAnswer grades an answer against the current question.
type SubmitAnswer struct {
	Answer string
}

// Unknown carries an action kind the reducer does not handle.
type Unknown struct {
	Name string
}

func (SetUserName) Kind() ActionKind  { return KindSetUserName }
func (NextQuestion) Kind() ActionKind { return KindNextQuestion }
func (SubmitAnswer) Kind() ActionKind { return KindSubmitAnswer }
func (u Unknown) Kind() ActionKind    { return ActionKind(u.Name) }

// ParseAction builds an action from its wire kind and string payload.
// Unrecognized kinds become Unknown.
func ParseAction(kind, payload string) Action {
	switch ActionKind(kind) {
	case KindSetUserName:
		return SetUserName{Name: payload}
	case KindNextQuestion:
		return NextQuestion{}
	case KindSubmitAnswer:
		return SubmitAnswer{Answer: payload}
	default:
		return Unknown{Name: kind}
	}
}
