package storequery

// PingResult is the response body for a successful ping command.
type PingResult struct {
	RequestID string `json:"request_id"`
}

// PingResponse is the full JSON document the REST layer writes back.
type PingResponse struct {
	Result PingResult `json:"StoreQueryPingResult"`
}

// Ping executes the ping command: it bounces the single parameter back
// verbatim as request_id. It bypasses authorization and permission checks,
// like every StoreQuery command.
func Ping(cmd Command) PingResponse {
	return PingResponse{Result: PingResult{RequestID: cmd.Params[0]}}
}
