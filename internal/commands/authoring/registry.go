package authoringcmd

import (
	"github.com/goliatone/go-cms-authoring/internal/commands"
	"github.com/goliatone/go-cms-authoring/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
)

// Handlers groups the authoring command handlers.
type Handlers struct {
	GenerateComponent *GenerateComponentHandler
	GeneratePage      *GeneratePageHandler
	SaveDatasource    *SaveDatasourceHandler
	PersistLayout     *PersistLayoutHandler
}

// NewHandlers builds every handler with a commands module logger.
func NewHandlers(sessions Sessions, provider interfaces.LoggerProvider) Handlers {
	logger := commands.CommandLogger(provider, "authoring")
	return Handlers{
		GenerateComponent: NewGenerateComponentHandler(sessions, logger),
		GeneratePage:      NewGeneratePageHandler(sessions, logger),
		SaveDatasource:    NewSaveDatasourceHandler(sessions, logger),
		PersistLayout:     NewPersistLayoutHandler(sessions, logger),
	}
}

// Subscription is returned by dispatcher.SubscribeCommand.
type Subscription interface {
	Unsubscribe()
}

// Subscribe registers the handlers with the go-command dispatcher and
// returns a function that removes them.
func (h Handlers) Subscribe() func() {
	subs := []Subscription{
		dispatcher.SubscribeCommand(h.GenerateComponent),
		dispatcher.SubscribeCommand(h.GeneratePage),
		dispatcher.SubscribeCommand(h.SaveDatasource),
		dispatcher.SubscribeCommand(h.PersistLayout),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
