package apiutil

import "github.com/mongodb/grip/message"

// MakeAPILogMessage returns a structured log message for a Sentinel API call.
func MakeAPILogMessage(op string, in interface{}) message.Fields {
	return message.Fields{
		"message": "sentinel API call",
		"op":      op,
		"input":   in,
	}
}
