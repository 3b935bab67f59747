package service

type Kind int

const (
	KindInvalidParameter Kind = iota + 1
	KindOperational
	KindNotFound
	KindRollbackFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindOperational:
		return "operational"
	case KindNotFound:
		return "not_found"
	case KindRollbackFailed:
		return "rollback_failed"
	default:
		return "unknown"
	}
}

// Error is the only error type the services return. Storage errors are logged
// and replaced by one of these.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets the package sentinels match any *Error of the same kind.
// ErrOperational matches every server-side kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	if t.Kind == KindOperational {
		return e.Kind != KindInvalidParameter
	}
	return e.Kind == t.Kind
}

var (
	ErrInvalidParameter = &Error{Kind: KindInvalidParameter}
	ErrOperational      = &Error{Kind: KindOperational}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrRollbackFailed   = &Error{Kind: KindRollbackFailed}
)

func invalidParameter(field, message string) *Error {
	return &Error{Kind: KindInvalidParameter, Field: field, Message: message}
}

func operational(message string) *Error {
	return &Error{Kind: KindOperational, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}
