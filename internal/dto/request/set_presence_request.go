package request

// SetPresenceRequest updates the caller's manual status and privacy scope.
// Empty fields leave the current value unchanged; AllowList only matters in
// selected mode. Used by: handler/presence_handler.go SetPresence
type SetPresenceRequest struct {
	Status    string   `json:"status" binding:"omitempty,oneof=online away dnd invisible"`
	Privacy   string   `json:"privacy" binding:"omitempty,oneof=everyone friends selected nobody"`
	AllowList []string `json:"allow_list" binding:"omitempty,max=256"`
}
