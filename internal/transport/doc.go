// Package transport issues commands to the remote LED device and parses its
// replies into an Outcome.
//
// A Client is stateless with respect to the device state it reports on: it
// never touches local state, performs exactly one attempt per call and gives
// up after a bounded timeout (DefaultTimeout unless configured, never more
// than MaxTimeout). Every failure is returned as a *Error whose Kind tells
// timeouts, refused connections and malformed replies apart.
//
// # Wire protocol
//
// HTTP (default), base URL http://<host>:<port>:
//
//	POST /led/toggle   device flips the LED, replies 200 {"state":"ON"|"OFF"}
//	                   with the state after the toggle
//	GET  /led/state    replies 200 {"state":"ON"|"OFF"}
//
// A plain-text body of ON or OFF (trimmed, any case) is accepted as well.
// Any non-2xx status, unparsable body or unknown state value is a malformed
// reply.
//
// WebSocket, ws://<host>:<port>/ws, JSON text frames:
//
//	request  {"id":7,"cmd":"toggle"|"query-state"}
//	reply    {"id":7,"state":"ON"|"OFF"}  or  {"id":7,"error":"..."}
//
// Replies carrying another id are skipped until the deadline. Each call dials
// its own connection.
//
// MQTT, through the configured broker:
//
//	<prefix>/output/<name>/set     payload TOGGLE or STATE
//	<prefix>/output/<name>/state   payload ON or OFF
//
// QueryState takes the first state message, retained or not. Toggle only
// accepts a non-retained message, since a retained one predates the toggle.
package transport
