package packets

type UpdateSettingsRequest struct {
	Source        *string  `json:"source"`
	Method        *int     `json:"method"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	City          *string  `json:"city"`
	PortalURL     *string  `json:"portal_url"`
	OffsetMinutes *int     `json:"offset_minutes"`

	FajrEnabled    *bool `json:"fajr_enabled"`
	SunriseEnabled *bool `json:"sunrise_enabled"`
	DhuhrEnabled   *bool `json:"dhuhr_enabled"`
	AsrEnabled     *bool `json:"asr_enabled"`
	MaghribEnabled *bool `json:"maghrib_enabled"`
	IshaEnabled    *bool `json:"isha_enabled"`

	AzanURL     *string `json:"azan_url"`
	FajrAzanURL *string `json:"fajr_azan_url"`

	Backend  *string `json:"backend"`
	TargetID *int    `json:"target_id"`
}

type CreateTargetRequest struct {
	Name     string  `json:"name" binding:"required"`
	Kind     string  `json:"kind" binding:"required"`
	Location *string `json:"location"`
}

type UpdateTargetRequest struct {
	Name     string  `json:"name" binding:"required"`
	Kind     string  `json:"kind" binding:"required"`
	Location *string `json:"location"`
}

type PairTargetRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
}

type TriggerRequest struct {
	Kind string `json:"kind" binding:"required"`
}
