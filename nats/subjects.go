package nats

import "fmt"

/**
Each table listens on two subjects and publishes on two.

table.<id>.player    : player and host events (JSON event envelope)
table.<id>.presence  : client connectivity updates
table.<id>.state     : table snapshot after every processed event
table.<id>.hand      : hand log notices

Tables are created and ended through ControlSubject.
*/

const ControlSubject = "tableserver.tables"

func PlayerSubject(tableID string) string {
	return fmt.Sprintf("table.%s.player", tableID)
}

func PresenceSubject(tableID string) string {
	return fmt.Sprintf("table.%s.presence", tableID)
}

func StateSubject(tableID string) string {
	return fmt.Sprintf("table.%s.state", tableID)
}

func HandSubject(tableID string) string {
	return fmt.Sprintf("table.%s.hand", tableID)
}
