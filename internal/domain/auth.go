package domain

import "time"

// Principal is the verified identity produced by a successful credential
// check. It lives for one request and carries no secret material.
type Principal struct {
	Email Email
	Role  Role
}

// AccessToken is a signed bearer token together with the claims it encodes.
// ExpiresAt is always IssuedAt plus the configured TTL.
type AccessToken struct {
	Value     string
	Subject   Email
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginEventTopic is the message-channel topic for login audit events.
const LoginEventTopic = "user.logged"

// LoginEvent is telemetry emitted after a successful login. Delivery is
// best-effort, loss is acceptable.
type LoginEvent struct {
	Topic   string
	Payload Email
}

func NewLoginEvent(email Email) LoginEvent {
	return LoginEvent{Topic: LoginEventTopic, Payload: email}
}
