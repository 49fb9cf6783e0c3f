package reactor

// Observer receives session updates. Methods are called synchronously while
// the engine holds its lock, so implementations must return quickly and must
// not call back into the same Engine.
type Observer interface {
	// OnTick is called after every state-mutating operation.
	OnTick(Snapshot)

	// OnTerminal is called exactly once when the shift ends.
	OnTerminal(TerminalResult)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Tick     func(Snapshot)
	Terminal func(TerminalResult)
}

func (o ObserverFuncs) OnTick(s Snapshot) {
	if o.Tick != nil {
		o.Tick(s)
	}
}

func (o ObserverFuncs) OnTerminal(r TerminalResult) {
	if o.Terminal != nil {
		o.Terminal(r)
	}
}

// Observers fans every callback out to each observer in order.
type Observers []Observer

func (obs Observers) OnTick(s Snapshot) {
	for _, o := range obs {
		o.OnTick(s)
	}
}

func (obs Observers) OnTerminal(r TerminalResult) {
	for _, o := range obs {
		o.OnTerminal(r)
	}
}
