package packets

type TargetResponse struct {
	ID        int     `json:"id"`
	DeviceID  *string `json:"device_id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Location  *string `json:"location"`
	Paired    bool    `json:"paired"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type SessionResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	AssetID   string  `json:"asset_id"`
	TargetID  int     `json:"target_id"`
	State     string  `json:"state"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Error     *string `json:"error,omitempty"`
}
