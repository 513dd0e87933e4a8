/*
Package nats connects the controller to a NATS server.

TelemetryPublisher publishes one JSON record per tick, from a background
goroutine, on a subject suffixed with the active mode (stance.telemetry.walk),
so consumers can subscribe to a single mode or to all of them with a wildcard. CommandSubscriber keeps the
latest operator intent received on the command subject and acknowledges
requests that carry a reply subject. Publisher sends intents.
*/
package nats
