/*
Package redis connects the controller to Redis.

TelemetrySink appends one JSON record per tick to a capped stream without
blocking the control loop. CommandSubscriber listens on a pub/sub channel for
operator intents and Publisher sends them.
*/
package redis
