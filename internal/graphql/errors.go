package graphql

import (
	"errors"
	"strings"
)

var (
	// ErrGraphQL matches every Error returned for a response carrying errors.
	ErrGraphQL = errors.New("graphql: response contained errors")
	// ErrEmptyResponse reports a response without a data member.
	ErrEmptyResponse = errors.New("graphql: empty response")
	// ErrTransport reports a request that did not produce a readable response.
	ErrTransport = errors.New("graphql: transport failure")
)

// Error carries the messages of a GraphQL `errors` array.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "graphql error: " + strings.Join(e.Messages, " | ")
}

// Is lets errors.Is(err, ErrGraphQL) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrGraphQL
}
