package agent

import "context"

// EchoEngine is a development stand-in for a real agent engine: it streams
// the instruction back as a single delta and returns it as the final text.
// Useful for exercising the gateway without an engine attached.
type EchoEngine struct {
	Feed *Feed
}

func (e *EchoEngine) Command(ctx context.Context, req CommandRequest) (*CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.Feed != nil {
		e.Feed.Publish(Event{
			RunID:  req.RunID,
			Stream: StreamAssistant,
			Data:   EventData{Delta: req.Message},
		})
	}
	return &CommandResult{Payloads: []Payload{{Text: req.Message}}}, nil
}
