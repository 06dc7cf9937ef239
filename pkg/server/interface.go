/*
Package server implements msgpack IPC for type-definition lookups.

Clients write msgpack maps to stdin and read one msgpack map per request from
stdout. Requests are processed one at a time, in order.

A search request carries a term and an optional limit:

	{"id": "req_001", "q": "lodash", "l": 10}

The response lists ranked packages with their project URL, monthly downloads
and 1-based rank, plus the lookup time in microseconds:

	{"id": "req_001", "r": [{"p": "@types/lodash", "u": "https://lodash.com", "d": 4200, "r": 1}], "c": 1, "t": 38}

Action requests manage the running index:

	{"id": "a1", "action": "reload"}
	{"id": "a2", "action": "stats"}

"reload" downloads the index again and swaps it in; searches keep using the
previous snapshot until the swap. Failures answer with an error map:

	{"id": "req_002", "e": "missing search term", "c": 400}
*/
package server

// Request is the union of every message a client can send. An empty Action
// means a search.
type Request struct {
	ID     string `msgpack:"id"`
	Term   string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Action string `msgpack:"action,omitempty"`
}

// SearchResult is one ranked package.
type SearchResult struct {
	Package   string `msgpack:"p"`
	URL       string `msgpack:"u"`
	Downloads int    `msgpack:"d"`
	Rank      uint16 `msgpack:"r"`
}

// SearchResponse answers a search request.
type SearchResponse struct {
	ID        string         `msgpack:"id"`
	Results   []SearchResult `msgpack:"r"`
	Count     int            `msgpack:"c"`
	TimeTaken int64          `msgpack:"t"`
}

// ActionResponse answers an action request.
type ActionResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest    = 400
	CodeUnknownAction = 404
	CodeInternal      = 500
)
