package controller

import (
	"log"

	"github.com/gofiber/websocket/v2"

	"neshama/engagement"
)

// HandleRunProgressWS streams live batch-run progress events to a dashboard
// client. The connection stays open across runs until the client closes it.
func HandleRunProgressWS(hub *engagement.ProgressHub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		events, cancel := hub.Subscribe()
		defer cancel()

		// Read pump: unblocks the writer when the client goes away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := c.WriteJSON(ev); err != nil {
					log.Printf("Error writing progress event: %v", err)
					return
				}
			}
		}
	}
}
