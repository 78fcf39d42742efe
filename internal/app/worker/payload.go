package worker

import "encoding/json"

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// paymentIDFromEvent re-extracts the payment id from a stored webhook
// payload when the sweep re-enqueues an unprocessed event.
func paymentIDFromEvent(raw []byte) string {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	return p.Data.ID.String()
}
