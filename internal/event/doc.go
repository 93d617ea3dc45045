/*
Package event provides a type-safe pub/sub event system for the IDE engine.

Components publish state changes here rather than calling each other's
callbacks directly: the workspace subscribes to execution-session events for
its terminal transcript, the CLI subscribes to whatever it wants to render.

The package is built on top of watermill's gochannel for infrastructure
while maintaining direct-call semantics to preserve type information.

Publishing:

	event.PublishSync(event.Event{
		Type: event.ExecOutput,
		Data: event.ExecOutputData{Stream: "stdout", Data: line},
	})

Subscribing:

	unsubscribe := event.Subscribe(event.ExecOutput, func(e event.Event) {
		data := e.Data.(event.ExecOutputData)
		fmt.Println(data.Data)
	})
	defer unsubscribe()

Subscribers invoked through PublishSync run in the publisher's goroutine and
must return quickly and never publish re-entrantly. For isolation (tests),
create an instance bus with NewBus and pass it to component constructors;
components fall back to the global bus when given nil.
*/
package event
