package packets

// REQUESTS FOR /api/device/*
type DeviceRequest struct {
	PairingCode string `json:"code" binding:"required"`
	DeviceID    string `json:"device_id" binding:"required"`
}

type AttachRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}
