/*
Package server implements msgpack IPC for sentence completion.

The server reads msgpack-encoded requests from stdin and writes one
msgpack-encoded response per request to stdout. Logs go to stderr.

# IPC

Every request carries an ID echoed back in its response. The action field
selects the operation; an empty action means "complete":

	{"id": "req_001", "p": "ab"}

The response holds the best completion, its occurrence count, whether any
sentence matched, and the time taken in microseconds:

	{"id": "req_001", "s": "abazacy", "n": 3, "f": true, "t": 4}

A prompt no sentence starts with is not an error, it comes back with f=false:

	{"id": "req_002", "s": "", "n": 0, "f": false, "t": 2}

Other actions:

	{"id": "s1", "action": "stats"}
	{"id": "h1", "action": "health"}

The config action changes the prompt limits at runtime. Omitted fields keep
their value; the change is saved to the active config file when there is one:

	{"id": "c1", "action": "config", "min": 1, "max": 40, "reload": true}
	{"id": "c1", "status": "ok", "min": 1, "max": 40, "reload": true}

Failures use CompletionError with an HTTP-like code: 400 for prompts with
symbols outside the alphabet, prompts outside the configured length limits
and unknown actions, 500 for internal errors.
*/
package server

// Request actions
const (
	ActionComplete = "complete"
	ActionStats    = "stats"
	ActionHealth   = "health"
	ActionConfig   = "config"
)

// Request is any client message
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Prompt string `msgpack:"p"`

	// config action only
	MinPrompt *int  `msgpack:"min,omitempty"`
	MaxPrompt *int  `msgpack:"max,omitempty"`
	Reload    *bool `msgpack:"reload,omitempty"`
}

// CompletionResponse - best completion for a prompt
type CompletionResponse struct {
	ID        string `msgpack:"id"`
	Sentence  string `msgpack:"s"`
	Count     int    `msgpack:"n"`
	Found     bool   `msgpack:"f"`
	TimeTaken int64  `msgpack:"t"`
}

// StatsResponse - corpus statistics
type StatsResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats"`
}

// StatusResponse - readiness and health replies
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ConfigResponse - prompt limits in effect after a config action
type ConfigResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	MinPrompt int    `msgpack:"min"`
	MaxPrompt int    `msgpack:"max"`
	Reload    bool   `msgpack:"reload"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
