package websocket

import "context"

// ServeListScreen runs one list screen for the lifetime of the connection:
// the list holder is activated on connect and deactivated on disconnect.
func ServeListScreen(client *Client) {
	if !client.Hub.add(client) {
		client.Conn.Close()
		return
	}

	states, cancelWatch := client.List.Watch()
	client.List.Activate(context.Background())

	go client.writePump()
	go client.statePump(states)

	client.readPump()

	client.List.Deactivate()
	cancelWatch()
}
